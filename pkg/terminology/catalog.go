package terminology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps raw diagnostic codes (ICD-9/10 style) to display strings. The
// extractor consults it when a condition record carries a code but no
// human-readable description.
type Catalog struct {
	Displays map[string]string `yaml:"displays" json:"displays"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Displays) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat, nil
}

// Lookup resolves a diagnostic code to its display string. Matching is
// case-insensitive on the code.
func (c Catalog) Lookup(code string) (string, bool) {
	if c.Displays == nil {
		return "", false
	}
	display, ok := c.Displays[strings.ToUpper(strings.TrimSpace(code))]
	if ok {
		return display, true
	}
	for k, v := range c.Displays {
		if strings.EqualFold(k, code) {
			return v, true
		}
	}
	return "", false
}

func DefaultCatalog() Catalog {
	return Catalog{Displays: map[string]string{
		"I10":   "Essential hypertension",
		"E11.9": "Type 2 diabetes mellitus",
		"A41.9": "Septicemia",
		"J18.9": "Pneumonia",
		"I50.9": "Heart failure",
	}}
}
