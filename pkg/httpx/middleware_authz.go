package httpx

import "net/http"

// Permission decides whether an already authenticated request may proceed.
type Permission func(*http.Request) bool

// Require rejects requests failing any of the permissions with 403 and the
// given message. Authentication must have happened upstream.
func Require(message string, perms ...Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, allowed := range perms {
				if !allowed(r) {
					WriteError(w, http.StatusForbidden, message)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
