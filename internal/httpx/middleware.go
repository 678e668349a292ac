package httpx

import (
	"context"
	"net/http"
)

// SessionCookie is the opaque token carried by the browser. The token is
// a bare uuid; everything it means lives server-side.
const SessionCookie = "session_token"

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (customerID string, err error)
}

type ctxKey int

const customerIDKey ctxKey = iota

// CustomerID returns the authenticated customer for the request, or ""
// when the request passed through no auth middleware.
func CustomerID(ctx context.Context) string {
	id, _ := ctx.Value(customerIDKey).(string)
	return id
}

// WithCustomerID is for tests that bypass the middleware.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}

// RequireSession resolves the session cookie to a customer id or answers
// with the 401 envelope.
func RequireSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				token = c.Value
			}
			customerID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				respondError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCustomerID(r.Context(), customerID)))
		})
	}
}
