package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pulseras/storefront-backend/pkg/enums"
)

// Order is the merchant-side record of a customer purchase.
type Order struct {
	ID               string            `gorm:"column:id;primaryKey" json:"id"`
	AccountID        string            `gorm:"column:account_id;not null;index:orders_account_id_idx" json:"accountId"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:1" json:"status"`
	TotalAmount      decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null" json:"totalAmount"`
	ShippingAddress  string            `gorm:"column:shipping_address;not null" json:"shippingAddress"`
	Phone            string            `gorm:"column:phone" json:"phone"`
	VoucherCode      *string           `gorm:"column:voucher_code" json:"voucherCode,omitempty"`
	PaymentOrderCode *int64            `gorm:"column:payment_order_code" json:"paymentOrderCode,omitempty"`
	Note             *string           `gorm:"column:note" json:"note,omitempty"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`

	// Document is the record as a remote order backend returned it, including fields
	// this struct does not model. Nil for local orders.
	Document map[string]json.RawMessage `gorm:"-" json:"-"`
}

func (Order) TableName() string { return "orders" }
