package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pulseras/storefront-backend/internal/localstore"
	"github.com/pulseras/storefront-backend/pkg/logger"
)

type persistMetrics interface {
	IncPersistFailure(op string)
	IncCorruptLoad()
}

// Option customizes a Store.
type Option func(*Store)

// WithMetrics records persistence failures and corrupt loads.
func WithMetrics(m persistMetrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// Store is the session cart. Every mutation writes the whole snapshot back to the
// device store under the "cart" key. The mutex only covers one Store value; each request
// loads its own, so overlapping requests on a session are last writer wins.
type Store struct {
	mu         sync.RWMutex
	items      []LineItem
	store      localstore.Store
	logg       *logger.Logger
	metrics    persistMetrics
	persistErr error
}

// Load hydrates the cart from the device store. A payload that cannot be decoded is
// discarded and its record removed; the cart then starts empty.
func Load(ctx context.Context, store localstore.Store, logg *logger.Logger, opts ...Option) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Store{store: store, logg: logg}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := store.Get(ctx, localstore.KeyCart)
	if err != nil {
		logg.WarnErr(ctx, "cart load failed, starting empty", err)
		return s
	}
	if !ok || raw == "" {
		return s
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logg.WarnErr(ctx, "discarding corrupt cart snapshot", err)
		if s.metrics != nil {
			s.metrics.IncCorruptLoad()
		}
		if rmErr := store.Remove(ctx, localstore.KeyCart); rmErr != nil {
			logg.WarnErr(ctx, "failed to remove corrupt cart snapshot", rmErr)
		}
		return s
	}
	s.items = sanitize(items)
	return s
}

// sanitize drops lines a well-behaved writer never produces so a decoded snapshot
// still holds one positive-quantity line per product.
func sanitize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}

// Add merges item into the cart. An existing line for the same product keeps its price
// and metadata; only its quantity grows.
func (s *Store) Add(ctx context.Context, item LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(item.ProductID); i >= 0 {
		s.items[i].Quantity += item.Quantity
	} else {
		s.items = append(s.items, item)
	}
	s.persist(ctx, "add")
}

// Remove drops the line for productID; absent ids are ignored.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.persist(ctx, "remove")
}

// UpdateQuantity replaces the quantity of an existing line. Quantities below 1 are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items[i].Quantity = quantity
	}
	s.persist(ctx, "update_quantity")
}

// Clear empties the cart and persists the empty snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist(ctx, "clear")
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// PersistErr reports the error of the most recent snapshot write, nil once a write succeeds.
func (s *Store) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context, op string) {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err == nil {
		err = s.store.Set(ctx, localstore.KeyCart, string(payload))
	}
	s.persistErr = err
	if err == nil {
		return
	}
	s.logg.WarnErr(s.logg.WithField(ctx, "cart_op", op), "cart snapshot write failed", err)
	if s.metrics != nil {
		s.metrics.IncPersistFailure(op)
	}
}
