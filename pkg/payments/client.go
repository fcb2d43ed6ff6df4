// Package payments looks up gateway payment records through the storefront backend.
package payments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pulseras/storefront-backend/pkg/config"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
	"github.com/pulseras/storefront-backend/pkg/restclient"
)

// PaymentInfo is the gateway payment record. Description carries the merchant order id
// for links created before the gateway supported a dedicated reference.
type PaymentInfo struct {
	ID            string          `json:"id,omitempty"`
	OrderCode     int64           `json:"orderCode"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference,omitempty"`
	TransactionAt string          `json:"transactionDateTime,omitempty"`
}

// Lookup is the payment status surface consumed by checkout.
type Lookup interface {
	GetPaymentByOrderCode(ctx context.Context, orderCode int64) (*PaymentInfo, error)
}

type Client struct {
	rest *restclient.Client
}

// NewClient builds the lookup client from config.
func NewClient(cfg config.PaymentsConfig, opts ...restclient.Option) (*Client, error) {
	base := []restclient.Option{
		restclient.WithTimeout(cfg.Timeout),
		restclient.WithAPIKey(cfg.APIKey),
		restclient.WithBreaker(cfg.BreakerFailures, cfg.BreakerOpenDelay),
	}
	rest, err := restclient.New("payments", cfg.BaseURL, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{rest: rest}, nil
}

// GetPaymentByOrderCode fetches GET /payments/{orderCode}.
func (c *Client) GetPaymentByOrderCode(ctx context.Context, orderCode int64) (*PaymentInfo, error) {
	if c == nil || c.rest == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments client not configured")
	}
	if orderCode <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code must be positive")
	}

	payload, err := c.rest.Do(ctx, http.MethodGet, "payments/"+strconv.FormatInt(orderCode, 10), nil)
	if err != nil {
		return nil, err
	}
	var info PaymentInfo
	if err := restclient.DecodeData(payload, &info); err != nil {
		return nil, err
	}
	if info.OrderCode == 0 {
		info.OrderCode = orderCode
	}
	return &info, nil
}
