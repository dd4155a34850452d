package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/backend/internal/setup"
	"github.com/folio-dev/folio/shared/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{Public: config.Public{
		DataPath:       filepath.Join(t.TempDir(), "contacts.csv"),
		AllowedOrigins: []string{"https://portfolio.example.com/"},
	}}
	deps, err := setup.SetupDependencies(cfg)
	require.NoError(t, err)
	return New(deps)
}

func contactForm() string {
	return url.Values{
		"name":    {"Jean Dupont"},
		"email":   {"jean.dupont@example.com"},
		"subject": {"Collaboration"},
		"message": {"Bonjour, je souhaite discuter d'un projet."},
		"privacy": {"1"},
	}.Encode()
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"contact post", http.MethodPost, "/contact", contactForm(), http.StatusOK},
		{"legacy contact post", http.MethodPost, "/contact.php", contactForm(), http.StatusOK},
		{"contact get", http.MethodGet, "/contact", "", http.StatusMethodNotAllowed},
		{"legacy contact delete", http.MethodDelete, "/contact.php", "", http.StatusMethodNotAllowed},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestMetricsExposeContactCounters(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(contactForm()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `folio_contact_submissions_total{outcome="accepted"}`)
	assert.Contains(t, rr.Body.String(), `folio_contact_notifications_total{result="disabled"}`)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	t.Run("configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/contact", nil)
		req.Header.Set("Origin", "https://portfolio.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, "https://portfolio.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/contact", nil)
		req.Header.Set("Origin", "https://evil.example.net")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:8081"}, allowedOrigins(nil))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		allowedOrigins([]string{" https://a.example/ ", "", "https://b.example"}))
}
