package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	cartsvc "github.com/pulseras/storefront-backend/internal/cart"
	"github.com/pulseras/storefront-backend/pkg/money"
)

// lineItemView lists the item fields itself: embedding LineItem would promote its
// MarshalJSON and drop the line totals.
type lineItemView struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	ProductImage  string          `json:"productImage"`
	Type          string          `json:"type"`
	Material      string          `json:"material"`
	Price         json.Number     `json:"price"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	LineTotalText string          `json:"lineTotalText"`
}

func newLineItemView(item cartsvc.LineItem) lineItemView {
	total := item.LineTotal()
	return lineItemView{
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		ProductImage:  item.ProductImage,
		Type:          item.Type,
		Material:      item.Material,
		Price:         json.Number(item.Price.String()),
		Quantity:      item.Quantity,
		LineTotal:     total,
		LineTotalText: money.FormatVND(total),
	}
}

// cartView.Persisted is false when the last snapshot write failed and the change
// only lives in this response.
type cartView struct {
	Items        []lineItemView  `json:"items"`
	ItemCount    int             `json:"itemCount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	SubtotalText string          `json:"subtotalText"`
	Persisted    bool            `json:"persisted"`
}

func newCartView(store *cartsvc.Store) cartView {
	items := store.Items()
	views := make([]lineItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newLineItemView(item))
	}
	subtotal := store.Subtotal()
	return cartView{
		Items:        views,
		ItemCount:    store.ItemCount(),
		Subtotal:     subtotal,
		SubtotalText: money.FormatVND(subtotal),
		Persisted:    store.PersistErr() == nil,
	}
}

type badgeView struct {
	Count int `json:"count"`
}
