package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
)

// UserIDHeader names the optional header that selects whose cart is used.
const UserIDHeader = "X-User-Id"

const maxUserIDLength = 128

// UserContext resolves the cart owner from X-User-Id, falling back to
// defaultUserID when the header is absent or unusable.
func UserContext(defaultUserID string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID == "" || len(userID) > maxUserIDLength {
				userID = defaultUserID
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
