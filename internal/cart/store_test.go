package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseras/storefront-backend/internal/localstore"
	"github.com/pulseras/storefront-backend/pkg/logger"
)

type stubMetrics struct {
	persistFailures map[string]int
	corruptLoads    int
}

func (s *stubMetrics) IncPersistFailure(op string) {
	if s.persistFailures == nil {
		s.persistFailures = map[string]int{}
	}
	s.persistFailures[op]++
}

func (s *stubMetrics) IncCorruptLoad() { s.corruptLoads++ }

type failingStore struct {
	localstore.Store
	setErr error
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func newSession() localstore.Store {
	return localstore.Scoped(localstore.NewMemory(), "sess-1")
}

func item(id string, price int64, qty int) LineItem {
	return LineItem{
		ProductID:   id,
		ProductName: "Pulsera " + id,
		Type:        "bracelet",
		Material:    "silver",
		Price:       decimal.NewFromInt(price),
		Quantity:    qty,
	}
}

func TestAddMergesByProductID(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newSession(), logger.Nop())

	s.Add(ctx, item("p1", 100000, 1))
	later := item("p1", 999999, 2)
	later.ProductName = "renamed"
	s.Add(ctx, later)
	s.Add(ctx, item("p2", 50000, 1))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(100000)), "existing price must be kept")
	assert.Equal(t, "Pulsera p1", items[0].ProductName)
	assert.Equal(t, "p2", items[1].ProductID)
}

func TestAddSequencesKeepOneLinePerProduct(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newSession(), logger.Nop())
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d"}
	want := map[string]int{}

	for i := 0; i < 200; i++ {
		id := ids[rng.Intn(len(ids))]
		qty := rng.Intn(5) + 1
		want[id] += qty
		s.Add(ctx, item(id, 1000, qty))
	}

	got := map[string]int{}
	for _, line := range s.Items() {
		_, dup := got[line.ProductID]
		require.False(t, dup, "duplicate line for %s", line.ProductID)
		got[line.ProductID] = line.Quantity
	}
	assert.Equal(t, want, got)
}

func TestUpdateQuantityIgnoresValuesBelowOne(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newSession(), logger.Nop())
	s.Add(ctx, item("p1", 1000, 4))

	for _, q := range []int{0, -1, -100} {
		s.UpdateQuantity(ctx, "p1", q)
		assert.Equal(t, 4, s.Items()[0].Quantity)
	}

	s.UpdateQuantity(ctx, "p1", 2)
	assert.Equal(t, 2, s.Items()[0].Quantity, "update replaces, never adds")

	s.UpdateQuantity(ctx, "missing", 5)
	require.Len(t, s.Items(), 1)
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	session := newSession()
	s := Load(ctx, session, logger.Nop())
	s.Add(ctx, item("p1", 1000, 1))
	s.Add(ctx, item("p2", 2000, 1))

	s.Remove(ctx, "missing")
	require.Len(t, s.Items(), 2)

	s.Remove(ctx, "p1")
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "p2", s.Items()[0].ProductID)

	s.Clear(ctx)
	assert.Empty(t, s.Items())
	raw, ok, err := session.Get(ctx, localstore.KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestDerivedTotalsTrackMutations(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newSession(), logger.Nop())
	check := func() {
		t.Helper()
		count := 0
		total := decimal.Zero
		for _, line := range s.Items() {
			count += line.Quantity
			total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		assert.Equal(t, count, s.ItemCount())
		assert.True(t, total.Equal(s.Subtotal()), "subtotal %s != %s", s.Subtotal(), total)
	}

	s.Add(ctx, item("p1", 150000, 2))
	check()
	s.Add(ctx, LineItem{ProductID: "p2", Price: decimal.RequireFromString("99999.5"), Quantity: 3})
	check()
	assert.Equal(t, 5, s.ItemCount())
	assert.Equal(t, "599998.5", s.Subtotal().String())
	s.UpdateQuantity(ctx, "p1", 1)
	check()
	s.Remove(ctx, "p2")
	check()
	s.Clear(ctx)
	check()
	assert.True(t, s.Subtotal().IsZero())
}

func TestSnapshotSurvivesReload(t *testing.T) {
	ctx := context.Background()
	session := newSession()
	s := Load(ctx, session, logger.Nop())
	s.Add(ctx, item("p1", 120000, 2))
	s.Add(ctx, item("p2", 80000, 1))
	s.UpdateQuantity(ctx, "p2", 4)

	reloaded := Load(ctx, session, logger.Nop())
	assert.ElementsMatch(t, normalize(s.Items()), normalize(reloaded.Items()))
	assert.Equal(t, s.ItemCount(), reloaded.ItemCount())
	assert.True(t, s.Subtotal().Equal(reloaded.Subtotal()))
}

// normalize flattens decimals so ElementsMatch compares values, not internal representation.
func normalize(items []LineItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, line := range items {
		out = append(out, map[string]any{
			"id":    line.ProductID,
			"name":  line.ProductName,
			"price": line.Price.String(),
			"qty":   line.Quantity,
		})
	}
	return out
}

func TestSnapshotUsesWireFieldNames(t *testing.T) {
	ctx := context.Background()
	session := newSession()
	s := Load(ctx, session, logger.Nop())
	s.Add(ctx, LineItem{
		ProductID:    "p1",
		ProductName:  "Luna",
		ProductImage: "luna.png",
		Type:         "bracelet",
		Material:     "gold",
		Price:        decimal.NewFromInt(250000),
		Quantity:     1,
	})

	raw, _, err := session.Get(ctx, localstore.KeyCart)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)
	for _, key := range []string{"productId", "productName", "productImage", "type", "material", "price", "quantity"} {
		assert.Contains(t, decoded[0], key)
	}
	assert.Equal(t, float64(250000), decoded[0]["price"], "price is stored as a JSON number")
	assert.Contains(t, raw, `"price":250000`)
}

func TestSnapshotKeepsFractionalPriceNumeric(t *testing.T) {
	ctx := context.Background()
	session := newSession()
	s := Load(ctx, session, logger.Nop())
	s.Add(ctx, LineItem{ProductID: "p1", ProductName: "Luna", Price: decimal.RequireFromString("199999.5"), Quantity: 2})

	raw, _, err := session.Get(ctx, localstore.KeyCart)
	require.NoError(t, err)
	assert.Contains(t, raw, `"price":199999.5`)

	reloaded := Load(ctx, session, logger.Nop())
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, "399999", reloaded.Subtotal().String())
}

func TestCorruptSnapshotLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":   "{{not-json",
		"wrong type": `{"productId":"p1"}`,
		"bad price":  `[{"productId":"p1","price":"abc","quantity":1}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			session := newSession()
			require.NoError(t, session.Set(ctx, localstore.KeyCart, payload))
			var logs bytes.Buffer
			metrics := &stubMetrics{}

			s := Load(ctx, session, logger.New(logger.Options{Output: &logs}), WithMetrics(metrics))

			assert.Empty(t, s.Items())
			assert.Equal(t, 0, s.ItemCount())
			_, ok, err := session.Get(ctx, localstore.KeyCart)
			require.NoError(t, err)
			assert.False(t, ok, "corrupt record must be removed")
			assert.Contains(t, logs.String(), "discarding corrupt cart snapshot")
			assert.Equal(t, 1, metrics.corruptLoads)
		})
	}
}

func TestLoadDropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	session := newSession()
	require.NoError(t, session.Set(ctx, localstore.KeyCart,
		`[{"productId":"p1","price":"10","quantity":1},{"productId":"","price":"5","quantity":1},`+
			`{"productId":"p2","price":"5","quantity":0},{"productId":"p1","price":"10","quantity":2}]`))

	s := Load(ctx, session, logger.Nop())
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestPersistFailureIsReportedNotRaised(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: newSession(), setErr: errors.New("disk full")}
	metrics := &stubMetrics{}
	var logs bytes.Buffer
	s := Load(ctx, store, logger.New(logger.Options{Output: &logs}), WithMetrics(metrics))

	s.Add(ctx, item("p1", 1000, 1))

	require.Len(t, s.Items(), 1, "in-memory state still changes")
	require.Error(t, s.PersistErr())
	assert.Equal(t, 1, metrics.persistFailures["add"])
	assert.Contains(t, logs.String(), "cart snapshot write failed")

	store.setErr = nil
	s.Add(ctx, item("p1", 1000, 1))
	assert.NoError(t, s.PersistErr())
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newSession(), logger.Nop())
	s.Add(ctx, item("p1", 1000, 1))

	items := s.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestOverlappingStoresAreLastWriterWins(t *testing.T) {
	ctx := context.Background()
	session := newSession()
	first := Load(ctx, session, logger.Nop())
	second := Load(ctx, session, logger.Nop())

	first.Add(ctx, LineItem{ProductID: "p1", ProductName: "Luna", Price: decimal.NewFromInt(100), Quantity: 1})
	second.Add(ctx, LineItem{ProductID: "p2", ProductName: "Sol", Price: decimal.NewFromInt(200), Quantity: 1})

	reloaded := Load(ctx, session, logger.Nop())
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}
