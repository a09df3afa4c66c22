package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userID"

// userIDHeader carries the caller identity established by the auth
// collaborator in front of this service.
const userIDHeader = "X-User-ID"

// Identity extracts the caller's user ID from the X-User-ID header and places
// it on the request context. Authentication itself is an external
// collaborator; the core only trusts the identity passed in. Requests without
// an identity are rejected.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			http.Error(w, userIDHeader+" header is required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// UserID returns the caller's user ID from the request context, or "" when
// the Identity middleware did not run.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
