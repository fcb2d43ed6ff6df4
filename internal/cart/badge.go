package cart

import (
	"context"
	"strconv"
	"strings"

	"github.com/pulseras/storefront-backend/internal/localstore"
)

// Badge is the cart icon counter kept under the "amount" key. It is independent of the
// line items and is not derived from them.
type Badge struct {
	store localstore.Store
}

func NewBadge(store localstore.Store) *Badge {
	return &Badge{store: store}
}

// Count returns the stored counter. Missing or unparseable values read as 0.
func (b *Badge) Count(ctx context.Context) (int, error) {
	raw, ok, err := b.store.Get(ctx, localstore.KeyAmount)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (b *Badge) Set(ctx context.Context, count int) error {
	if count < 0 {
		count = 0
	}
	return b.store.Set(ctx, localstore.KeyAmount, strconv.Itoa(count))
}

// Reset writes "0".
func (b *Badge) Reset(ctx context.Context) error {
	return b.Set(ctx, 0)
}
