package middleware

import "net/http"

// SetJSONContentType defaults responses to JSON. Handlers that stream other
// formats set their own Content-Type before writing.
func SetJSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
