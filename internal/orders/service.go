// Package orders exposes the order record operations checkout needs: fetch by id and
// full-record update.
package orders

import (
	"context"

	"github.com/pulseras/storefront-backend/pkg/db/models"
)

// Service reads and replaces whole order records.
type Service interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, id string, order *models.Order) (*models.Order, error)
}
