// security.go - Response-header hygiene for a JSON API.
package server

import "net/http"

// securityHeadersMiddleware adds security headers to all responses. The API
// serves JSON and raw payload bytes only, so the set is deliberately small.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME sniffing on payload downloads
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// No UI to frame
		w.Header().Set("X-Frame-Options", "DENY")

		// Don't leak URLs
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
