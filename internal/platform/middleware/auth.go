package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"bolao/internal/jwttoken"
)

// TokenValidator is satisfied by the jwttoken service; the indirection keeps
// the middleware testable with purpose-built validators.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

type contextKeyUserID struct{}
type contextKeyUserName struct{}
type contextKeyAvatarURL struct{}

// Context keys for storing authenticated user information.
var (
	ContextKeyUserID    = contextKeyUserID{}
	ContextKeyUserName  = contextKeyUserName{}
	ContextKeyAvatarURL = contextKeyAvatarURL{}
)

// GetUserID retrieves the authenticated user ID from the context. Empty when
// the request carried no valid token.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserName retrieves the authenticated user's display name.
func GetUserName(ctx context.Context) string {
	name, ok := ctx.Value(ContextKeyUserName).(string)
	if !ok {
		return ""
	}
	return name
}

// GetAvatarURL retrieves the authenticated user's avatar URL.
func GetAvatarURL(ctx context.Context) string {
	avatarURL, ok := ctx.Value(ContextKeyAvatarURL).(string)
	if !ok {
		return ""
	}
	return avatarURL
}

func withClaims(ctx context.Context, claims *jwttoken.Claims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, claims.Subject)
	ctx = context.WithValue(ctx, ContextKeyUserName, claims.Name)
	ctx = context.WithValue(ctx, ContextKeyAvatarURL, claims.AvatarURL)
	return ctx
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// subject in the request context for handlers.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", GetRequestID(r.Context()),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the subject when a valid bearer token is present and
// lets the request through anonymously otherwise. Poll creation uses this:
// an unauthenticated creator produces an ownerless poll.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok {
				if claims, err := validator.ValidateToken(token); err == nil {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
