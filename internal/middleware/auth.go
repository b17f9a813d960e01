package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MrKriegler/go-renewals/pkg/problem"
)

// SimpleAPIKey accepts any of keys, sent as X-API-Key or as a bearer token.
// Several keys let a new one roll out before the old one is revoked. Mount it on
// the API subrouter only so probes stay unauthenticated.
func SimpleAPIKey(keys ...string) func(http.Handler) http.Handler {
	accepted := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			accepted = append(accepted, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !keyAccepted(presentedKey(r), accepted) {
				problem.Write(w, r, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func presentedKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	key, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return key
}

// keyAccepted compares against every key so timing does not reveal which matched.
func keyAccepted(key string, accepted [][]byte) bool {
	if key == "" {
		return false
	}
	match := 0
	for _, k := range accepted {
		match |= subtle.ConstantTimeCompare([]byte(key), k)
	}
	return match == 1
}
