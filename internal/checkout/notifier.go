package checkout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const orderPaidEventType = "order.paid"

// OrderPaidEvent is published once an order has been marked paid.
type OrderPaidEvent struct {
	OrderID   string          `json:"orderId"`
	OrderCode string          `json:"orderCode,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
}

// PaidNotifier announces paid orders to downstream consumers.
type PaidNotifier interface {
	OrderPaid(ctx context.Context, event OrderPaidEvent) error
}

type orderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// PubSubNotifier publishes OrderPaidEvent as JSON on the orders topic.
type PubSubNotifier struct {
	publisher orderEventPublisher
}

func NewPubSubNotifier(publisher orderEventPublisher) *PubSubNotifier {
	return &PubSubNotifier{publisher: publisher}
}

func (n *PubSubNotifier) OrderPaid(ctx context.Context, event OrderPaidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = n.publisher.PublishOrderEvent(ctx, data, map[string]string{
		"event_type": orderPaidEventType,
		"order_id":   event.OrderID,
	})
	return err
}
