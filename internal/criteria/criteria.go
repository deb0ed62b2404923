// Package criteria holds the static registry of review dimensions and the
// key normalization rules shared by prompts, parsing, and scoring.
package criteria

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Criterion is one named review dimension.
type Criterion struct {
	Key         string `yaml:"key" json:"key"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

//go:embed catalog.yaml
var catalogYAML []byte

var catalog []Criterion

var byKey map[string]Criterion

func init() {
	var doc struct {
		Criteria []Criterion `yaml:"criteria"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		panic(fmt.Sprintf("criteria: embedded catalog is invalid: %v", err))
	}
	catalog = doc.Criteria
	byKey = make(map[string]Criterion, len(catalog))
	for _, c := range catalog {
		byKey[c.Key] = c
	}
}

// Catalog returns the full list of available criteria in registry order.
// Callers must not modify the returned slice.
func Catalog() []Criterion {
	return catalog
}

// Lookup returns the criterion for a (possibly unnormalized) name.
func Lookup(name string) (Criterion, bool) {
	c, ok := byKey[Normalize(name)]
	return c, ok
}

// Normalize maps a human-readable criterion name to its canonical key:
// lowercase, with spaces and hyphens replaced by underscores. Idempotent,
// so "Error Handling", "error-handling", and "error_handling" collide.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Selection is an ordered set of criterion keys chosen for one evaluation
// run. An empty selection means "general review".
type Selection []string

// NewSelection normalizes the given names, drops duplicates, and verifies
// every entry exists in the catalog.
func NewSelection(names ...string) (Selection, error) {
	sel := make(Selection, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := Normalize(name)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			return nil, fmt.Errorf("unknown criterion %q", name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		sel = append(sel, key)
	}
	return sel, nil
}

// FullSelection returns a selection covering the entire catalog.
func FullSelection() Selection {
	sel := make(Selection, len(catalog))
	for i, c := range catalog {
		sel[i] = c.Key
	}
	return sel
}

// Keys returns the normalized keys of the selection.
func (s Selection) Keys() []string {
	keys := make([]string, len(s))
	for i, k := range s {
		keys[i] = Normalize(k)
	}
	return keys
}

// Labels returns display labels for the selection, falling back to the raw
// key when it is not in the catalog.
func (s Selection) Labels() []string {
	labels := make([]string, len(s))
	for i, k := range s {
		if c, ok := byKey[Normalize(k)]; ok {
			labels[i] = c.Label
		} else {
			labels[i] = k
		}
	}
	return labels
}

// IsEmpty reports whether the selection requests a general review.
func (s Selection) IsEmpty() bool { return len(s) == 0 }
