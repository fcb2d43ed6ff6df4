package localstore

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
	pkgredis "github.com/pulseras/storefront-backend/pkg/redis"
)

type redisStore interface {
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	Del(context.Context, ...string) error
	DeviceKey(sessionID, key string) string
}

// Redis stores device entries under pulseras:device:<session>:<key>. Every write
// refreshes the TTL so idle sessions expire on their own.
type Redis struct {
	client redisStore
	ttl    time.Duration
}

func NewRedis(client redisStore, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) GetSession(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.client.DeviceKey(sessionID, key))
	if errors.Is(err, pkgredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read device entry")
	}
	return value, true, nil
}

func (r *Redis) SetSession(ctx context.Context, sessionID, key, value string) error {
	if err := r.client.Set(ctx, r.client.DeviceKey(sessionID, key), value, r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write device entry")
	}
	return nil
}

func (r *Redis) RemoveSession(ctx context.Context, sessionID, key string) error {
	if err := r.client.Del(ctx, r.client.DeviceKey(sessionID, key)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove device entry")
	}
	return nil
}
