package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	fmw "github.com/folio-dev/folio/frontend/internal/middleware"
	"github.com/folio-dev/folio/frontend/internal/setup"
	"github.com/folio-dev/folio/frontend/web"
	mw "github.com/folio-dev/folio/shared/middleware"
	"github.com/folio-dev/folio/shared/middleware/metrics"
)

func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies,
		mw.WithFormAction(mw.SiteCSP, deps.Public.Frontend.PublicApiURL)))

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(web.Assets()))))
	r.Get("/projects/projects.json", deps.Handler.ProjectsJSONHandler)

	csrfCfg := fmw.CSRFConfig{
		SecureCookies: deps.Public.SecureCookies,
		MaxFormBytes:  deps.Public.MaxBodyBytes,
	}

	r.Group(func(r chi.Router) {
		r.Use(fmw.GenerateCSRFToken(csrfCfg))
		r.Use(fmw.ValidateCSRFToken(csrfCfg))

		r.Get("/", deps.Handler.IndexGetHandler)
		r.Get("/projects", deps.Handler.ProjectsGetHandler)
		r.Get("/contact", deps.Handler.ContactGetHandler)
		r.Post("/contact", deps.Handler.ContactPostHandler)
	})

	return r
}
