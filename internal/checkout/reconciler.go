// Package checkout turns a payment gateway redirect into a definitive local order status.
package checkout

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pulseras/storefront-backend/internal/orders"
	"github.com/pulseras/storefront-backend/pkg/db/models"
	"github.com/pulseras/storefront-backend/pkg/enums"
	"github.com/pulseras/storefront-backend/pkg/logger"
	"github.com/pulseras/storefront-backend/pkg/money"
	"github.com/pulseras/storefront-backend/pkg/payments"
)

var (
	errNoOrderReference = errors.New("no order id in redirect or payment description")
	errInvalidOrderCode = errors.New("order code is not a positive integer")
	errClaimInFlight    = errors.New("order code is being reconciled by another visit")
)

type badgeResetter interface {
	Reset(ctx context.Context) error
}

type cartClearer interface {
	Clear(ctx context.Context)
}

type reconcileMetrics interface {
	Observe(display, orderUpdate string, elapsed time.Duration)
}

// Deps are the collaborators shared by every reconciliation.
type Deps struct {
	Payments payments.Lookup
	Orders   orders.Service
	// Ledger and Notifier are optional.
	Ledger   Ledger
	Notifier PaidNotifier
	Metrics  reconcileMetrics
	Logger   *logger.Logger
	Now      func() time.Time
	// ClearCartOnPaid also empties the cart line items after a paid order. Off by default:
	// the badge counter is the only session state reset on success.
	ClearCartOnPaid bool
}

// Session is the shopper state touched on success.
type Session struct {
	Badge badgeResetter
	Cart  cartClearer
}

// Reconciler runs the redirect flow for one session.
type Reconciler struct {
	deps    Deps
	session Session
}

func NewReconciler(deps Deps, session Session) (*Reconciler, error) {
	if deps.Payments == nil {
		return nil, errors.New("payments lookup required")
	}
	if deps.Orders == nil {
		return nil, errors.New("orders service required")
	}
	if session.Badge == nil {
		return nil, errors.New("badge required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Reconciler{deps: deps, session: session}, nil
}

// Reconcile runs the flow to completion or to its first failure. It never returns an
// error; every outcome is folded into Result.
func (r *Reconciler) Reconcile(ctx context.Context, params RedirectParams) Result {
	start := r.deps.Now()
	res := Result{
		Code:              params.Code,
		Status:            params.Status,
		OrderCode:         params.OrderCode,
		Cancelled:         params.Cancel,
		OrderUpdateStatus: enums.OrderUpdatePending,
	}
	defer func() {
		if r.deps.Metrics != nil {
			r.deps.Metrics.Observe(res.Display.String(), res.OrderUpdateStatus.String(), r.deps.Now().Sub(start))
		}
	}()

	if params.OrderCode != "" {
		ctx = r.deps.Logger.WithOrderCode(ctx, params.OrderCode)
	}
	if params.Cancel {
		res.finish()
		r.deps.Logger.Info(ctx, "checkout cancelled by shopper")
		return res
	}

	if params.OrderCode != "" {
		code, ok := params.orderCodeValue()
		if !ok {
			return r.fail(ctx, &res, "payment lookup skipped", errInvalidOrderCode)
		}
		payment, err := r.deps.Payments.GetPaymentByOrderCode(ctx, code)
		if err != nil {
			return r.fail(ctx, &res, "payment lookup failed", err)
		}
		res.Payment = payment
		res.AmountText = money.FormatVND(payment.Amount)
	}

	if !r.paid(params, res.Payment) {
		res.finish()
		r.deps.Logger.Info(ctx, "payment not confirmed")
		return res
	}

	orderID := resolveOrderID(params, res.Payment)
	if orderID == "" {
		return r.fail(ctx, &res, "cannot mark order paid", errNoOrderReference)
	}
	res.OrderID = orderID
	ctx = r.deps.Logger.WithField(ctx, "order_id", orderID)

	if err := r.markPaid(ctx, params.OrderCode, orderID, res.Payment); err != nil {
		if errors.Is(err, errClaimInFlight) {
			res.finish()
			r.deps.Logger.Info(ctx, "order update in flight elsewhere, leaving result pending")
			return res
		}
		return r.fail(ctx, &res, "order update failed", err)
	}
	res.OrderUpdateStatus = enums.OrderUpdateSuccess
	r.resetSession(ctx)

	res.finish()
	r.deps.Logger.Info(ctx, "order marked paid")
	return res
}

func (r *Reconciler) paid(params RedirectParams, payment *payments.PaymentInfo) bool {
	if payment != nil && IsSuccessToken(payment.Status) {
		return true
	}
	return params.Code == gatewaySuccessCode || params.Status == redirectPaidStatus
}

// resolveOrderID prefers the explicit redirect parameter over the description fallback.
func resolveOrderID(params RedirectParams, payment *payments.PaymentInfo) string {
	candidates := []string{params.OrderID}
	if payment != nil {
		candidates = append(candidates, payment.Description)
	}
	candidates = append(candidates, params.ID)
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (r *Reconciler) markPaid(ctx context.Context, orderCode, orderID string, payment *payments.PaymentInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	claimed := false
	if r.deps.Ledger != nil && orderCode != "" {
		state, err := r.deps.Ledger.Claim(ctx, orderCode)
		switch {
		case err != nil:
			r.deps.Logger.WarnErr(ctx, "reconcile ledger unavailable, updating order anyway", err)
		case state == ClaimDone:
			r.deps.Logger.Info(ctx, "order already reconciled, skipping update")
			return nil
		case state == ClaimInFlight:
			return errClaimInFlight
		default:
			claimed = true
		}
	}

	order, err := r.writePaid(ctx, orderID)
	if err != nil {
		if claimed {
			r.releaseClaim(ctx, orderCode)
		}
		return err
	}
	if claimed {
		if err := r.deps.Ledger.Complete(context.WithoutCancel(ctx), orderCode); err != nil {
			r.deps.Logger.WarnErr(ctx, "failed to record reconciled order code", err)
		}
	}
	r.notify(ctx, orderCode, order.ID, payment)
	return nil
}

func (r *Reconciler) writePaid(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := r.deps.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order.Status = enums.OrderStatusPaid
	order.UpdatedAt = r.deps.Now().UTC()
	updated, err := r.deps.Orders.Update(ctx, orderID, order)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = order
	}
	return updated, nil
}

func (r *Reconciler) releaseClaim(ctx context.Context, orderCode string) {
	if err := r.deps.Ledger.Release(context.WithoutCancel(ctx), orderCode); err != nil {
		r.deps.Logger.WarnErr(ctx, "failed to release reconcile claim", err)
	}
}

func (r *Reconciler) notify(ctx context.Context, orderCode, orderID string, payment *payments.PaymentInfo) {
	if r.deps.Notifier == nil {
		return
	}
	event := OrderPaidEvent{OrderID: orderID, OrderCode: orderCode, PaidAt: r.deps.Now().UTC()}
	if payment != nil {
		event.Amount = payment.Amount
		if event.OrderCode == "" {
			event.OrderCode = strconv.FormatInt(payment.OrderCode, 10)
		}
	}
	if err := r.deps.Notifier.OrderPaid(ctx, event); err != nil {
		r.deps.Logger.WarnErr(ctx, "order paid notification failed", err)
	}
}

func (r *Reconciler) resetSession(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := r.session.Badge.Reset(ctx); err != nil {
		r.deps.Logger.WarnErr(ctx, "cart badge reset failed", err)
	}
	if r.deps.ClearCartOnPaid && r.session.Cart != nil {
		r.session.Cart.Clear(ctx)
	}
}

func (r *Reconciler) fail(ctx context.Context, res *Result, msg string, err error) Result {
	res.OrderUpdateStatus = enums.OrderUpdateError
	res.FailureReason = err.Error()
	res.finish()
	r.deps.Logger.WarnErr(ctx, msg, err)
	return *res
}
