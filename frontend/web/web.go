// Package web embeds the site templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

const baseTemplate = "base.html"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Assets is served under /assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// LoadTemplates parses every page template together with base.html, keyed by file name.
func LoadTemplates() (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if path.Ext(name) != ".html" || name == baseTemplate {
			continue
		}
		t, err := template.New(baseTemplate).Funcs(funcs).ParseFS(templateFS,
			path.Join("templates", baseTemplate),
			path.Join("templates", name),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// MustLoadTemplates is LoadTemplates for program start-up.
func MustLoadTemplates() map[string]*template.Template {
	t, err := LoadTemplates()
	if err != nil {
		panic(err)
	}
	return t
}
