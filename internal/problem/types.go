// types.go
package problem

// Var names one input variable offered to the player and its display type label.
type Var struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"` // e.g. "number[]", "string"
}

// TestCase binds named inputs to the value a correct submission must produce.
type TestCase struct {
	Input    map[string]any `yaml:"input" json:"input"`
	Expected any            `yaml:"expected" json:"expected"`
}

// Problem is one immutable catalogue entry.
// ID is the entry's position in its catalogue and is assigned at load time.
type Problem struct {
	ID         int        `yaml:"-" json:"id"`
	Question   string     `yaml:"question" json:"question"`
	Vars       []Var      `yaml:"vars" json:"vars"`
	TestCases  []TestCase `yaml:"tests" json:"tests"`
	Difficulty int        `yaml:"difficulty" json:"difficulty"`
}

// VarsLine renders the variables the way the enemy card shows them: "a: number[], b: string".
func (p Problem) VarsLine() string {
	out := ""
	for i, v := range p.Vars {
		if i > 0 {
			out += ", "
		}
		out += v.Name + ": " + v.Type
	}
	return out
}

// Validator is the solution-checking boundary. Implementations evaluate a
// submission against every test case of p and must report false, never panic
// or return an error, when evaluation fails.
type Validator interface {
	Validate(code string, p Problem) bool
}
