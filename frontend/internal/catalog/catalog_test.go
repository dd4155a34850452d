package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/shared/api"
)

const sample = `{
  "projects": [
    {"slug": "site-vitrine", "title": "Site vitrine", "category": "Web", "technologies": ["PHP", "CSS"], "excerpt": "Un site.", "image": "assets/images/projects/vitrine.jpg"},
    {"slug": "outil-cli", "title": "Outil CLI", "category": "Outils", "technologies": ["Go"], "excerpt": "Un outil."},
    {"slug": "boutique", "title": "Boutique", "category": "Web", "excerpt": "Une boutique."}
  ]
}`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "site-vitrine", all[0].Slug)
	assert.Equal(t, "assets/images/projects/vitrine.jpg", all[0].Image)
	assert.Equal(t, api.PlaceholderImage, all[1].Image)
	assert.Equal(t, []string{}, all[2].Technologies)
}

func TestFilter(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	web := c.Filter("Web")
	require.Len(t, web, 2)
	assert.Equal(t, "site-vitrine", web[0].Slug)
	assert.Equal(t, "boutique", web[1].Slug)

	assert.Len(t, c.Filter(""), 3)
	assert.Empty(t, c.Filter("Mobile"))
}

func TestFilter_DoesNotExposeInternalSlice(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	got := c.All()
	got[0].Title = "changed"
	assert.Equal(t, "Site vitrine", c.All()[0].Title)
}

func TestCategories(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"Web", "Outils"}, c.Categories())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "{"},
		{"missing category", `{"projects":[{"slug":"a","title":"A"}]}`},
		{"missing slug", `{"projects":[{"title":"A","category":"Web"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.All(), 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to open catalog")
}

func TestEmptyCatalog(t *testing.T) {
	c, err := Parse(strings.NewReader(`{"projects":[]}`))
	require.NoError(t, err)
	assert.Empty(t, c.All())
	assert.Nil(t, c.Categories())
}
