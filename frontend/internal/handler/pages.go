package handler

import (
	"net/http"

	"github.com/folio-dev/folio/shared/api"
	"github.com/folio-dev/folio/shared/utils"
)

const featuredCount = 3

func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	projects := h.Catalog.All()
	if len(projects) > featuredCount {
		projects = projects[:featuredCount]
	}
	h.renderTemplate(w, r, "index.html", http.StatusOK, struct {
		Featured []api.Project
	}{projects})
}

func (h *Handler) ProjectsGetHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	h.renderTemplate(w, r, "projects.html", http.StatusOK, struct {
		Projects   []api.Project
		Categories []string
		Selected   string
	}{h.Catalog.Filter(category), h.Catalog.Categories(), category})
}

// ProjectsJSONHandler serves the catalog document, optionally narrowed by ?category=.
func (h *Handler) ProjectsJSONHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	utils.WriteJSON(w, http.StatusOK, api.Catalog{Projects: h.Catalog.Filter(r.URL.Query().Get("category"))})
}
