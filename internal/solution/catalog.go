// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solution

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// templateLang is the snippet language used for the template approach.
const templateLang = "python3"

// Catalog holds static solution write-ups. Nothing in it is derived from a
// problem beyond topic matching and the starter-code snippet.
type Catalog struct {
	Entries  []Entry                `yaml:"approaches"`
	Template types.SolutionApproach `yaml:"template"`
}

// Entry is a catalog approach and the topic tags it applies to.
type Entry struct {
	types.SolutionApproach `yaml:",inline"`
	Topics                 []string `yaml:"topics"`
}

// DefaultCatalog returns the catalog built into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(builtinCatalog)
}

// LoadCatalog reads a catalog from a YAML file. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for i, e := range c.Entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("approach %d has no name", i)
		}
		if len(e.Topics) == 0 {
			return nil, fmt.Errorf("approach %q has no topics", e.Name)
		}
	}
	if strings.TrimSpace(c.Template.Name) == "" {
		return nil, fmt.Errorf("template approach has no name")
	}
	return &c, nil
}

// Matching returns the entries whose topics intersect rec.Topics, in catalog
// order. Topic comparison ignores case.
func (c *Catalog) Matching(rec *types.ProblemRecord) []types.SolutionApproach {
	topics := make(map[string]bool, len(rec.Topics))
	for _, t := range rec.Topics {
		topics[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var out []types.SolutionApproach
	for _, e := range c.Entries {
		for _, t := range e.Topics {
			if topics[strings.ToLower(t)] {
				out = append(out, e.SolutionApproach)
				break
			}
		}
	}
	return out
}

// TemplateFor returns the template approach, with the problem's python3
// starter code as its implementation when the problem has one.
func (c *Catalog) TemplateFor(rec *types.ProblemRecord) types.SolutionApproach {
	t := c.Template
	if code := rec.Snippet(templateLang); code != "" {
		t.Implementation = code
	}
	return t
}
