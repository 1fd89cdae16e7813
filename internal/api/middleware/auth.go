package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/asset-vault-api/internal/api/respond"
	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/logging"
	"github.com/dom/asset-vault-api/internal/service"
)

type contextKey string

const (
	userKey  contextKey = "authUser"
	tokenKey contextKey = "authToken"
)

// Auth resolves the bearer token once per request and stores both the owner
// and the raw token in the context. Handlers that revoke sessions read the
// token back out, so the services always receive it as an explicit argument.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Unauthenticated(w)
				return
			}

			user, err := authService.CurrentUser(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					respond.Unauthenticated(w)
					return
				}
				logging.FromContext(r.Context()).Error("authenticating request", "error", err)
				respond.ServerError(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user stored by Auth.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// BearerToken returns the raw token stored by Auth.
func BearerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
