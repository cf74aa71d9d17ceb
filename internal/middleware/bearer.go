// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gusgusz/projeto14-mywallet-back/internal/service"
	"go.uber.org/zap"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// TokenResolver maps a bearer token to the id of the user owning it.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (string, error)
}

// BearerAuth is a middleware that requires an "Authorization: Bearer <token>"
// header naming a live session.
//
// Requests with a missing or malformed header, or a token the resolver
// rejects with service.ErrUnauthorized, get 401 and never reach next.
// Resolver failures get 500. On success the user id and the token are stored
// in the request context.
func BearerAuth(resolver TokenResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			userID, err := resolver.ResolveToken(r.Context(), token)
			if errors.Is(err, service.ErrUnauthorized) {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("resolve token", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// GetTokenFromContext returns the bearer token that authenticated the request.
func GetTokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}
