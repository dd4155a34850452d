package middleware

import (
	"context"
	"net/http"

	"github.com/folio-dev/folio/shared/config"
	"github.com/folio-dev/folio/shared/csrf"
	"github.com/folio-dev/folio/shared/logger"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfCookieAge  = 86400
)

type csrfContextKey string

const csrfTokenContextKey csrfContextKey = "csrf_token"

type CSRFConfig struct {
	SecureCookies bool
	// MaxFormBytes caps the body read while looking for the form token.
	MaxFormBytes int64
}

// GenerateCSRFToken ensures every visitor carries a csrf cookie and exposes
// the token to templates through the request context.
func GenerateCSRFToken(cfg CSRFConfig) func(http.Handler) http.Handler {
	log := logger.Component("csrf")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
				token = cookie.Value
			} else {
				token, err = csrf.GenerateToken()
				if err != nil {
					log.Error("failed to generate CSRF token", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   csrfCookieAge,
				})
			}

			ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateCSRFToken rejects unsafe requests whose form token does not match the cookie.
func ValidateCSRFToken(cfg CSRFConfig) func(http.Handler) http.Handler {
	log := logger.Component("csrf")
	maxBytes := cfg.MaxFormBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(csrfCookieName)
			if err != nil {
				log.Warn("CSRF token cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			if err := r.ParseForm(); err != nil {
				log.Warn("failed to parse form", "path", r.URL.Path, "error", err)
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}

			if !csrf.ValidateToken(cookie.Value, r.PostForm.Get(csrfFormField)) {
				log.Warn("CSRF token validation failed", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFTokenFromContext returns the token stored by GenerateCSRFToken.
func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenContextKey).(string)
	return token
}
