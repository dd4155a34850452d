package middleware

import (
	"net/http"
)

// Content-Security-Policy values for the two servers.
const (
	// APICSP forbids everything: the API only answers JSON.
	APICSP = "default-src 'none'; frame-ancestors 'none'"
	// SiteCSP allows same-origin assets and the form post to the API origin.
	SiteCSP = "default-src 'self'; img-src 'self' data:; style-src 'self'; script-src 'self'; frame-ancestors 'none'"
)

// SecurityHeadersWithCSP adds security headers with custom Content-Security-Policy
// isHTTPS: if true, adds Strict-Transport-Security header
// csp: Content-Security-Policy value (if empty, no CSP header is set)
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}

			// HSTS - only when served over HTTPS
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithFormAction extends csp so the page may post forms to origin.
func WithFormAction(csp, origin string) string {
	if origin == "" {
		return csp + "; form-action 'self'"
	}
	return csp + "; form-action 'self' " + origin
}
