package problem

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var defaultCatalogueYAML []byte

var ErrEmptyCatalogue = errors.New("problem catalogue is empty")

// Catalogue is the fixed, ordered set of problems a game draws from.
type Catalogue struct {
	problems []Problem
	minDiff  int
	maxDiff  int
}

type catalogueFile struct {
	Problems []Problem `yaml:"problems"`
}

// NewCatalogue assigns stable ids (positions) and computes the difficulty range.
// It does not validate content; see Validate.
func NewCatalogue(problems []Problem) (*Catalogue, error) {
	if len(problems) == 0 {
		return nil, ErrEmptyCatalogue
	}
	c := &Catalogue{problems: make([]Problem, len(problems))}
	for i, p := range problems {
		p.ID = i
		c.problems[i] = p
		if i == 0 || p.Difficulty < c.minDiff {
			c.minDiff = p.Difficulty
		}
		if i == 0 || p.Difficulty > c.maxDiff {
			c.maxDiff = p.Difficulty
		}
	}
	return c, nil
}

// Parse decodes a YAML catalogue document and validates it.
func Parse(b []byte) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	c, err := NewCatalogue(f.Problems)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a catalogue file. An empty path yields the embedded default.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	return Parse(b)
}

// Default returns the built-in catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogueYAML)
}

func (c *Catalogue) Len() int { return len(c.problems) }

// At returns the entry with the given id.
func (c *Catalogue) At(id int) (Problem, bool) {
	if id < 0 || id >= len(c.problems) {
		return Problem{}, false
	}
	return c.problems[id], true
}

// All returns the entries in catalogue order. The slice is shared; do not modify it.
func (c *Catalogue) All() []Problem { return c.problems }

// Lookup resolves p to its catalogue entry. A problem matches when the entry at
// p.ID carries the same question and difficulty; anything else is unknown.
func (c *Catalogue) Lookup(p Problem) (int, bool) {
	e, ok := c.At(p.ID)
	if !ok {
		return -1, false
	}
	if e.Question != p.Question || e.Difficulty != p.Difficulty {
		return -1, false
	}
	return p.ID, true
}

func (c *Catalogue) MinDifficulty() int { return c.minDiff }
func (c *Catalogue) MaxDifficulty() int { return c.maxDiff }

// Difficulties lists the distinct difficulty values in ascending order.
func (c *Catalogue) Difficulties() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, p := range c.problems {
		if _, ok := seen[p.Difficulty]; ok {
			continue
		}
		seen[p.Difficulty] = struct{}{}
		out = append(out, p.Difficulty)
	}
	sort.Ints(out)
	return out
}
