package cart

import (
	"github.com/shopspring/decimal"

	"github.com/pulseras/storefront-backend/api/validators"
	cartsvc "github.com/pulseras/storefront-backend/internal/cart"
)

const maxTextLength = 255

// AddItemRequest is a product snapshot taken by the UI at add time.
type AddItemRequest struct {
	ProductID    string          `json:"productId" validate:"required,max=64"`
	ProductName  string          `json:"productName" validate:"required"`
	ProductImage string          `json:"productImage"`
	Type         string          `json:"type"`
	Material     string          `json:"material"`
	Price        decimal.Decimal `json:"price" validate:"min=0"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
}

func (r AddItemRequest) toLineItem() cartsvc.LineItem {
	return cartsvc.LineItem{
		ProductID:    validators.SanitizeString(r.ProductID, maxTextLength),
		ProductName:  validators.SanitizeString(r.ProductName, maxTextLength),
		ProductImage: validators.SanitizeString(r.ProductImage, 2048),
		Type:         validators.SanitizeString(r.Type, maxTextLength),
		Material:     validators.SanitizeString(r.Material, maxTextLength),
		Price:        r.Price,
		Quantity:     r.Quantity,
	}
}

// UpdateQuantityRequest carries the replacement quantity. Values below 1 are accepted and ignored.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type BadgeRequest struct {
	Count *int `json:"count" validate:"required,min=0"`
}
