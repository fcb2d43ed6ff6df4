package middleware

import (
	"fmt"
	"net/http"

	"github.com/pulseras/storefront-backend/api/responses"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
	"github.com/pulseras/storefront-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope, logged with the request and
// session it happened in. http.ErrAbortHandler is re-raised for net/http to handle.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				if logg != nil {
					fields := map[string]any{
						"panic":  fmt.Sprint(rec),
						"method": r.Method,
						"path":   r.URL.Path,
					}
					if sessionID := SessionIDFromContext(ctx); sessionID != "" {
						fields["session_id"] = sessionID
					}
					ctx = logg.WithFields(ctx, fields)
				}
				err := fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, rec)
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected server error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
