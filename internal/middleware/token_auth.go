package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const ctxIssuerKey contextKey = "issuer"

// TokenValidator resolves a bearer token to the issuer's account id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// TokenAuth authenticates requests by validating the Bearer token and
// setting the issuer id into the request context. It only establishes who
// is asking; whether they may act is decided downstream.
func TokenAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}
			issuerID, err := validator.ValidateToken(r.Context(), raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIssuer(r.Context(), issuerID)))
		})
	}
}

// IssuerFromCtx returns the authenticated issuer id.
func IssuerFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxIssuerKey).(uuid.UUID)
	return id, ok
}

// WithIssuer returns a context carrying the given issuer id.
func WithIssuer(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxIssuerKey, id)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
