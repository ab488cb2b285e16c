package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"

	// UserIDHeader is set by the gateway after it has authenticated the caller.
	UserIDHeader = "X-User-ID"

	maxUserIDLength = 128
)

// Identity takes the caller's user id from the trusted gateway header.
// When anonymous requests are not allowed a missing id is rejected with 401.
func Identity(allowAnonymous bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))

			if len(userID) > maxUserIDLength {
				api.Error(w, http.StatusUnauthorized, "invalid user identity")
				return
			}

			if userID == "" {
				if !allowAnonymous {
					api.HandleError(r.Context(), w, domain.ErrMissingIdentity)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = logging.ContextWithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id, or "" for anonymous callers.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}
