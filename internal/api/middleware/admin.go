package middleware

import (
	"net/http"
	"strings"

	"github.com/dom/asset-vault-api/internal/api/respond"
)

// RequireAdmin passes only users whose email is on the configured
// allow-list. It must run after Auth.
func RequireAdmin(adminEmails []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				respond.Unauthenticated(w)
				return
			}
			if _, ok := allowed[strings.ToLower(user.Email)]; !ok {
				respond.Message(w, http.StatusForbidden, "Forbidden.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
