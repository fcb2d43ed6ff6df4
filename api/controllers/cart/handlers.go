package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pulseras/storefront-backend/api/middleware"
	"github.com/pulseras/storefront-backend/api/responses"
	"github.com/pulseras/storefront-backend/api/validators"
	cartsvc "github.com/pulseras/storefront-backend/internal/cart"
	"github.com/pulseras/storefront-backend/internal/localstore"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
	"github.com/pulseras/storefront-backend/pkg/logger"
)

type persistMetrics interface {
	IncPersistFailure(op string)
	IncCorruptLoad()
}

// Sessions opens the cart and badge of the request's device session.
type Sessions struct {
	Backend localstore.Backend
	Metrics persistMetrics
	Logger  *logger.Logger
}

func (s *Sessions) store(ctx context.Context) (localstore.Store, error) {
	if s == nil || s.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "device storage unavailable")
	}
	sessionID := middleware.SessionIDFromContext(ctx)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return localstore.Scoped(s.Backend, sessionID), nil
}

// Cart loads the session cart.
func (s *Sessions) Cart(ctx context.Context) (*cartsvc.Store, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	var opts []cartsvc.Option
	if s.Metrics != nil {
		opts = append(opts, cartsvc.WithMetrics(s.Metrics))
	}
	return cartsvc.Load(ctx, store, s.Logger, opts...), nil
}

func (s *Sessions) Badge(ctx context.Context) (*cartsvc.Badge, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	return cartsvc.NewBadge(store), nil
}

// CartFetch returns the session cart with derived totals.
func CartFetch(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessions.Cart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartAddItem merges a product into the cart.
func CartAddItem(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Cart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.Add(r.Context(), payload.toLineItem())
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(store))
	}
}

func CartUpdateItem(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Cart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.UpdateQuantity(r.Context(), productID, payload.Quantity)
		responses.WriteSuccess(w, newCartView(store))
	}
}

func CartRemoveItem(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := sessions.Cart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.Remove(r.Context(), productID)
		responses.WriteSuccess(w, newCartView(store))
	}
}

func CartClear(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessions.Cart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.Clear(r.Context())
		responses.WriteSuccess(w, newCartView(store))
	}
}

func BadgeFetch(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		badge, err := sessions.Badge(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		count, err := badge.Count(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, badgeView{Count: count})
	}
}

func BadgeUpdate(sessions *Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload BadgeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		badge, err := sessions.Badge(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := badge.Set(r.Context(), *payload.Count); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, badgeView{Count: *payload.Count})
	}
}

func productIDParam(r *http.Request) (string, error) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return productID, nil
}
