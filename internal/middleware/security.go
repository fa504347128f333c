// Package middleware provides HTTP middleware for pastecn.
// This includes security headers and other cross-cutting concerns.
package middleware

import (
	"net/http"
)

// SecurityHeaders returns middleware that adds security headers to
// responses. Cache-Control is deliberately not set here: registry and
// content handlers choose their own policy (immutable public for open
// snippets, private no-store for protected ones), and a blanket
// no-store would defeat the registry's caching model.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "no-referrer")

			// API-only surface: nothing may load or frame it
			csp := "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
			w.Header().Set("Content-Security-Policy", csp)

			w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			next.ServeHTTP(w, r)
		})
	}
}
