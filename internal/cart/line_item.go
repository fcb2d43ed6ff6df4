package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. Display metadata and price are a snapshot taken when
// the product was added and are never refreshed.
type LineItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Type         string          `json:"type"`
	Material     string          `json:"material"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// lineItemJSON is the stored layout; price is written as a JSON number.
type lineItemJSON struct {
	ProductID    string      `json:"productId"`
	ProductName  string      `json:"productName"`
	ProductImage string      `json:"productImage"`
	Type         string      `json:"type"`
	Material     string      `json:"material"`
	Price        json.Number `json:"price"`
	Quantity     int         `json:"quantity"`
}

func (l LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		ProductImage: l.ProductImage,
		Type:         l.Type,
		Material:     l.Material,
		Price:        json.Number(l.Price.String()),
		Quantity:     l.Quantity,
	})
}

// LineTotal is price × quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
