// Package catalog loads the project list shown on the projects page.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/folio-dev/folio/shared/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog is immutable once loaded.
type Catalog struct {
	projects []api.Project
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog document. Every project needs a slug, a title and a
// category; a missing image falls back to the placeholder.
func Parse(r io.Reader) (*Catalog, error) {
	var doc api.Catalog
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid catalog json: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	projects := make([]api.Project, len(doc.Projects))
	for i, p := range doc.Projects {
		if p.Image == "" {
			p.Image = api.PlaceholderImage
		}
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
		projects[i] = p
	}
	return &Catalog{projects: projects}, nil
}

// All returns every project in file order.
func (c *Catalog) All() []api.Project {
	return c.Filter("")
}

// Filter returns the projects of category, or all of them when category is "".
func (c *Catalog) Filter(category string) []api.Project {
	out := make([]api.Project, 0, len(c.projects))
	for _, p := range c.projects {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range c.projects {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	return cats
}
