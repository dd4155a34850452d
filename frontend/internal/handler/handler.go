package handler

import (
	"html/template"

	"github.com/folio-dev/folio/frontend/internal/apiclient"
	"github.com/folio-dev/folio/frontend/internal/catalog"
	"github.com/folio-dev/folio/frontend/internal/contactform"
	"github.com/folio-dev/folio/shared/config"
)

type Handler struct {
	Templates map[string]*template.Template
	Public    config.Public
	Catalog   *catalog.Catalog
	Submitter contactform.Submitter
}

func New(templates map[string]*template.Template, publicCfg config.Public, cat *catalog.Catalog, apiClient *apiclient.APIClient) *Handler {
	return &Handler{
		Templates: templates,
		Public:    publicCfg,
		Catalog:   cat,
		Submitter: apiClient,
	}
}
