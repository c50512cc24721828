package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authenticator performs a bearer-token membership check against the
// configured token set. Comparison is constant-time per token so response
// timing does not leak prefix matches.
type authenticator struct {
	tokens []string
}

func newAuthenticator(tokens []string) *authenticator {
	return &authenticator{tokens: tokens}
}

// wrap guards a handler with the bearer check.
func (a *authenticator) wrap(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.authorized(r) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func (a *authenticator) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return false
	}

	for _, candidate := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			return true
		}
	}
	return false
}
