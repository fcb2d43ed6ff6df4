package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pulseras/storefront-backend/internal/account"
	"github.com/pulseras/storefront-backend/internal/localstore"
	"github.com/pulseras/storefront-backend/pkg/logger"
)

const (
	sessionIDHeader    = "X-Session-Id"
	maxSessionIDLength = 128
)

// Session resolves the device session from X-Session-Id, minting one when the client has
// none, and echoes it back so the UI can keep it. The cached account enriches the logger.
func Session(backend localstore.Backend, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" || len(sessionID) > maxSessionIDLength {
				sessionID = uuid.NewString()
			}
			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			if backend != nil {
				acct, err := account.Load(ctx, localstore.Scoped(backend, sessionID))
				switch {
				case err != nil && logg != nil:
					logg.WarnErr(ctx, "session account unreadable", err)
				case acct != nil && acct.ID != "":
					ctx = WithUserID(ctx, acct.ID)
					if logg != nil {
						ctx = logg.WithUserID(ctx, acct.ID)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
