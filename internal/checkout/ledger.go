package checkout

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/pulseras/storefront-backend/pkg/redis"
)

// ClaimState is what a visit learns when it claims a gateway order code.
type ClaimState int

const (
	// ClaimAcquired means this visit owns the order write.
	ClaimAcquired ClaimState = iota
	// ClaimInFlight means another visit holds the code and has not finished writing.
	ClaimInFlight
	// ClaimDone means the order was already marked paid.
	ClaimDone
)

const (
	claimPending = "pending"
	claimDone    = "done"

	// A pending claim left behind by a crashed visit stops blocking retries after this.
	maxPendingClaimTTL = 2 * time.Minute
)

// Ledger remembers which gateway order codes have already marked their order paid.
type Ledger interface {
	Claim(ctx context.Context, orderCode string) (ClaimState, error)
	// Complete records that the order write for a claimed code succeeded.
	Complete(ctx context.Context, orderCode string) error
	// Release forgets a claim whose order update failed so a later visit can retry.
	Release(ctx context.Context, orderCode string) error
}

type ledgerStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	ReconciledKey(orderCode string) string
}

// RedisLedger keeps claims under pulseras:reconciled:<orderCode>. A claim is written as
// "pending" and becomes "done" once the order write succeeds; done claims live for ttl.
type RedisLedger struct {
	store      ledgerStore
	ttl        time.Duration
	pendingTTL time.Duration
}

func NewRedisLedger(store ledgerStore, ttl time.Duration) *RedisLedger {
	pendingTTL := maxPendingClaimTTL
	if ttl > 0 && ttl < pendingTTL {
		pendingTTL = ttl
	}
	return &RedisLedger{store: store, ttl: ttl, pendingTTL: pendingTTL}
}

func (l *RedisLedger) Claim(ctx context.Context, orderCode string) (ClaimState, error) {
	key := l.store.ReconciledKey(orderCode)
	acquired, err := l.store.SetNX(ctx, key, claimPending, l.pendingTTL)
	if err != nil {
		return ClaimInFlight, err
	}
	if acquired {
		return ClaimAcquired, nil
	}
	value, err := l.store.Get(ctx, key)
	switch {
	case errors.Is(err, pkgredis.Nil):
		// Released between SetNX and Get; the holder's write failed.
		return ClaimInFlight, nil
	case err != nil:
		return ClaimInFlight, err
	case value == claimDone:
		return ClaimDone, nil
	default:
		return ClaimInFlight, nil
	}
}

func (l *RedisLedger) Complete(ctx context.Context, orderCode string) error {
	return l.store.Set(ctx, l.store.ReconciledKey(orderCode), claimDone, l.ttl)
}

func (l *RedisLedger) Release(ctx context.Context, orderCode string) error {
	return l.store.Del(ctx, l.store.ReconciledKey(orderCode))
}
