package setup

import (
	"fmt"

	"github.com/folio-dev/folio/frontend/internal/apiclient"
	"github.com/folio-dev/folio/frontend/internal/catalog"
	"github.com/folio-dev/folio/frontend/internal/handler"
	"github.com/folio-dev/folio/frontend/web"
	"github.com/folio-dev/folio/shared/config"
	"github.com/folio-dev/folio/shared/logger"
)

type Dependencies struct {
	Handler *handler.Handler
	Public  config.Public
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	cat, err := catalog.Load(cfg.Public.Frontend.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	templates, err := web.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	apiClient := apiclient.New(cfg.Public.Frontend.ApiBaseURL)
	logger.Component("setup").Info("frontend dependencies ready",
		"projects", len(cat.All()),
		"templates", len(templates),
		"api", apiClient.BaseURL,
	)

	return &Dependencies{
		Handler: handler.New(templates, cfg.Public, cat, apiClient),
		Public:  cfg.Public,
	}, nil
}
