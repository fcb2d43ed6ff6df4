package enums

import "fmt"

// OrderStatus is the small-integer lifecycle code stored on orders.
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1
	OrderStatusConfirmed OrderStatus = 2
	OrderStatusPaid      OrderStatus = 3
	OrderStatusShipping  OrderStatus = 4
	OrderStatusDelivered OrderStatus = 5
	OrderStatusCancelled OrderStatus = 6
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusPending:   "pending",
	OrderStatusConfirmed: "confirmed",
	OrderStatusPaid:      "paid",
	OrderStatusShipping:  "shipping",
	OrderStatusDelivered: "delivered",
	OrderStatusCancelled: "cancelled",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	if name, ok := orderStatusNames[o]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(o))
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[o]
	return ok
}

// ParseOrderStatus converts a raw integer code into an OrderStatus.
func ParseOrderStatus(value int) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid order status %d", value)
	}
	return status, nil
}
