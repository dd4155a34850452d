package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/folio-dev/folio/backend/internal/setup"
	mw "github.com/folio-dev/folio/shared/middleware"
	"github.com/folio-dev/folio/shared/middleware/metrics"
)

// New creates the API router. The contact routes accept every method so that
// the handler itself answers non-POST calls with a JSON 405.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)

	// setup CORS for the site origin(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(deps.Config.Public.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, mw.APICSP))

	h := deps.Handler

	r.HandleFunc("/contact", h.Contact)
	// Path used by the previous PHP site; existing pages still post there.
	r.HandleFunc("/contact.php", h.Contact)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func allowedOrigins(configured []string) []string {
	var origins []string
	for _, o := range configured {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:8081"}
	}
	return origins
}
