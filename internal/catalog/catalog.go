// Package catalog serves document requirements from a local YAML file.
//
// The file maps category names to the document titles they require:
//
//	categories:
//	  TRANSPORTADORA:
//	    - Alvará de funcionamento
//	    - Licença ANTT
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// FileCatalog is an in-memory catalog loaded from YAML.
// Category names are matched case-insensitively after trimming.
type FileCatalog struct {
	categories map[string][]string
}

// Load reads a catalog from filePath.
func Load(filePath string) (*FileCatalog, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader parses a catalog from r.
func LoadFromReader(r io.Reader) (*FileCatalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	categories := make(map[string][]string, len(raw.Categories))
	for name, titles := range raw.Categories {
		key := normalize(name)
		if key == "" {
			continue
		}
		for _, title := range titles {
			if t := strings.TrimSpace(title); t != "" {
				categories[key] = append(categories[key], t)
			}
		}
	}
	return &FileCatalog{categories: categories}, nil
}

// RequirementsFor returns the titles for category, or an empty list when the
// category is unknown.
func (c *FileCatalog) RequirementsFor(_ context.Context, category string) ([]string, error) {
	titles := c.categories[normalize(category)]
	out := make([]string, len(titles))
	copy(out, titles)
	return out, nil
}

// Categories returns how many categories are known.
func (c *FileCatalog) Categories() int {
	return len(c.categories)
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
