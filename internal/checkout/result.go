package checkout

import (
	"github.com/pulseras/storefront-backend/pkg/enums"
	"github.com/pulseras/storefront-backend/pkg/payments"
)

// Result is the outcome of one reconciliation.
type Result struct {
	Code              string                  `json:"code,omitempty"`
	Status            string                  `json:"status,omitempty"`
	OrderCode         string                  `json:"orderCode,omitempty"`
	Cancelled         bool                    `json:"cancelled"`
	Payment           *payments.PaymentInfo   `json:"payment,omitempty"`
	OrderUpdateStatus enums.OrderUpdateStatus `json:"orderUpdateStatus"`
	Display           enums.CheckoutState     `json:"display"`
	OrderID           string                  `json:"orderId,omitempty"`
	AmountText        string                  `json:"amountText,omitempty"`
	FailureReason     string                  `json:"-"`
}

func (r *Result) finish() {
	r.Display = DisplayState(r.Cancelled, r.Code, r.Status, r.OrderUpdateStatus)
}

// DisplayState picks the card shown to the shopper, Cancelled first, then Success, else Pending.
func DisplayState(cancel bool, code, status string, update enums.OrderUpdateStatus) enums.CheckoutState {
	if cancel {
		return enums.CheckoutStateCancelled
	}
	if update == enums.OrderUpdateSuccess || (code == gatewaySuccessCode && status == redirectPaidStatus) {
		return enums.CheckoutStateSuccess
	}
	return enums.CheckoutStatePending
}

// StatusCard is the icon, title and message rendered on the result page.
type StatusCard struct {
	State   enums.CheckoutState `json:"state"`
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Icon    string              `json:"icon"`
}

// Card renders the result. Failures show the pending card pointing to order history,
// never a raw error.
func (r Result) Card() StatusCard {
	switch r.Display {
	case enums.CheckoutStateCancelled:
		return StatusCard{
			State:   r.Display,
			Title:   "Payment cancelled",
			Message: "You cancelled the payment. Your cart is still saved if you want to try again.",
			Icon:    "close-circle",
		}
	case enums.CheckoutStateSuccess:
		return StatusCard{
			State:   r.Display,
			Title:   "Payment successful",
			Message: "Thank you! Your order has been confirmed and is being prepared.",
			Icon:    "check-circle",
		}
	default:
		return StatusCard{
			State:   enums.CheckoutStatePending,
			Title:   "Payment processing",
			Message: "We are confirming your payment. Check your order history for the latest status.",
			Icon:    "clock-circle",
		}
	}
}
