package problem

import (
	"fmt"
	"strings"
)

// Validate checks semantic constraints of every entry and reports all of them at once.
func (c *Catalogue) Validate() error {
	var errs []string
	for i, p := range c.problems {
		if strings.TrimSpace(p.Question) == "" {
			errs = append(errs, fmt.Sprintf("problems[%d].question must not be empty", i))
		}
		if p.Difficulty < 1 {
			errs = append(errs, fmt.Sprintf("problems[%d].difficulty must be >= 1", i))
		}
		if len(p.TestCases) == 0 {
			errs = append(errs, fmt.Sprintf("problems[%d].tests must not be empty", i))
		}
		names := make(map[string]struct{}, len(p.Vars))
		for j, v := range p.Vars {
			if v.Name == "" {
				errs = append(errs, fmt.Sprintf("problems[%d].vars[%d].name must not be empty", i, j))
				continue
			}
			if _, dup := names[v.Name]; dup {
				errs = append(errs, fmt.Sprintf("problems[%d].vars[%d] duplicates %q", i, j, v.Name))
			}
			names[v.Name] = struct{}{}
		}
		// every test input must be a declared variable
		for j, tc := range p.TestCases {
			for name := range tc.Input {
				if _, ok := names[name]; !ok {
					errs = append(errs, fmt.Sprintf("problems[%d].tests[%d] binds undeclared %q", i, j, name))
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalogue validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
