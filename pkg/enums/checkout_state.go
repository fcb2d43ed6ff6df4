package enums

import "fmt"

// CheckoutState is the terminal status card shown after a payment redirect.
type CheckoutState string

const (
	CheckoutStateCancelled CheckoutState = "cancelled"
	CheckoutStateSuccess   CheckoutState = "success"
	CheckoutStatePending   CheckoutState = "pending"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateCancelled,
	CheckoutStateSuccess,
	CheckoutStatePending,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}

// OrderUpdateStatus tracks whether the local order was marked paid.
type OrderUpdateStatus string

const (
	OrderUpdatePending OrderUpdateStatus = "pending"
	OrderUpdateSuccess OrderUpdateStatus = "success"
	OrderUpdateError   OrderUpdateStatus = "error"
)

// String implements fmt.Stringer.
func (o OrderUpdateStatus) String() string {
	return string(o)
}
