package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/osse101/MediDispenser_Go/internal/logger"
)

// Validator checks a raw token and returns the caller identity
type Validator interface {
	ValidateToken(tokenString string) (string, error)
}

type contextKeyUser struct{}

// WithUser stores the authenticated user on ctx
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, contextKeyUser{}, user)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(contextKeyUser{}).(string)
	return user, ok && user != ""
}

// RequireAuth rejects requests without a valid token. Both "Bearer <token>"
// and a bare token are accepted in the Authorization header.
func RequireAuth(validator Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			token := bearerToken(r.Header.Get("Authorization"))

			user, err := validator.ValidateToken(token)
			if err != nil {
				log.Warn("Unauthorized request", "error", err)
				writeUnauthorized(w, err)
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = logger.WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken strips an optional case-insensitive "Bearer" scheme
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "bearer"
	if len(header) >= len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}
	return header
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	msg := ErrTokenInvalid.Error()
	switch {
	case errors.Is(err, ErrTokenMissing):
		msg = ErrTokenMissing.Error()
	case errors.Is(err, ErrTokenExpired):
		msg = ErrTokenExpired.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="medidispenser"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
