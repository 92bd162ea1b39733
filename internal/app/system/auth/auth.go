// internal/app/system/auth/auth.go

// Package auth loads the caller's identity into the request context.
//
// Authentication itself is delegated to an external identity provider;
// by the time a request reaches this service, the fronting gateway has
// verified the caller and attached identity headers. This package only
// trusts those headers and exposes the identity to handlers. There is
// no session state here.
package auth

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Identity headers set by the fronting gateway after IdP verification.
const (
	HeaderUserID   = "X-Auth-User-Id"
	HeaderUserName = "X-Auth-User-Name"
	HeaderEmail    = "X-Auth-Email"
)

// SessionUser is the identity attached to a request.
type SessionUser struct {
	ID    string
	Name  string
	Email string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// Toucher records that a user was just active. Implemented by the user
// store; used to keep last_seen_at fresh for the daily active-user count.
type Toucher interface {
	TouchLastSeen(ctx context.Context, userID primitive.ObjectID) error
}

// LoadIdentity injects the caller into context when identity headers
// are present. Requests without identity continue as anonymous; each
// handler decides whether that is acceptable.
func LoadIdentity(toucher Toucher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderUserID)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			user := &SessionUser{
				ID:    id,
				Name:  r.Header.Get(HeaderUserName),
				Email: r.Header.Get(HeaderEmail),
			}
			if toucher != nil {
				if oid, err := primitive.ObjectIDFromHex(id); err == nil {
					tctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
					if err := toucher.TouchLastSeen(tctx, oid); err != nil {
						logger.Debug("touch last_seen failed", zap.String("user_id", id), zap.Error(err))
					}
					cancel()
				}
			}
			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithTestUser injects a user directly into the request context.
// Test-only shortcut that bypasses the identity middleware.
func WithTestUser(r *http.Request, user *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, user))
}
