package checkout

import (
	"context"
	"net/http"

	cartcontrollers "github.com/pulseras/storefront-backend/api/controllers/cart"
	"github.com/pulseras/storefront-backend/api/responses"
	checkoutsvc "github.com/pulseras/storefront-backend/internal/checkout"
	"github.com/pulseras/storefront-backend/pkg/enums"
	"github.com/pulseras/storefront-backend/pkg/logger"
)

type resultResponse struct {
	Card   checkoutsvc.StatusCard `json:"card"`
	Result checkoutsvc.Result     `json:"result"`
}

// sessionCart defers loading the cart until the reconciler actually clears it.
type sessionCart struct {
	sessions *cartcontrollers.Sessions
	logg     *logger.Logger
}

func (c sessionCart) Clear(ctx context.Context) {
	store, err := c.sessions.Cart(ctx)
	if err != nil {
		if c.logg != nil {
			c.logg.WarnErr(ctx, "cart clear after payment skipped", err)
		}
		return
	}
	store.Clear(ctx)
}

// CheckoutResult reconciles the gateway redirect query and always answers 200 with a
// status card. Failures degrade to the pending card.
func CheckoutResult(deps checkoutsvc.Deps, sessions *cartcontrollers.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params := checkoutsvc.ParseRedirect(r.URL.Query())

		reconciler, err := newReconciler(ctx, deps, sessions, logg)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "checkout reconciler unavailable", err)
			}
			res := checkoutsvc.Result{
				Code:              params.Code,
				Status:            params.Status,
				OrderCode:         params.OrderCode,
				Cancelled:         params.Cancel,
				OrderUpdateStatus: enums.OrderUpdateError,
			}
			res.Display = checkoutsvc.DisplayState(params.Cancel, params.Code, params.Status, res.OrderUpdateStatus)
			responses.WriteSuccess(w, resultResponse{Card: res.Card(), Result: res})
			return
		}

		res := reconciler.Reconcile(ctx, params)
		responses.WriteSuccess(w, resultResponse{Card: res.Card(), Result: res})
	}
}

func newReconciler(ctx context.Context, deps checkoutsvc.Deps, sessions *cartcontrollers.Sessions, logg *logger.Logger) (*checkoutsvc.Reconciler, error) {
	badge, err := sessions.Badge(ctx)
	if err != nil {
		return nil, err
	}
	return checkoutsvc.NewReconciler(deps, checkoutsvc.Session{
		Badge: badge,
		Cart:  sessionCart{sessions: sessions, logg: logg},
	})
}
