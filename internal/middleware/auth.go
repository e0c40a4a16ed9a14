package middleware

import (
	"context"
	"net/http"

	"github.com/taskflow/taskflow-go/internal/session"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithSession resolves the session cookie and, when it names a valid user,
// stores the user id in the request context. Requests with no usable
// credential proceed as anonymous; the middleware never rejects.
func WithSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := sessions.Resolve(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user id from the request
// context. ok is false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
