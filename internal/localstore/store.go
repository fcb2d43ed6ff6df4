// Package localstore is the string-keyed device storage that backs a shopper's
// session: the cart snapshot, the badge counter and the cached account.
package localstore

import (
	"context"
	"strings"
)

// Well-known keys shared by the cart, badge and account readers.
const (
	KeyCart    = "cart"
	KeyAmount  = "amount"
	KeyAccount = "account"
)

// Store reads and writes whole string values. A missing key is reported as ok=false,
// never as an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a multi-tenant store keyed by session.
type Backend interface {
	GetSession(ctx context.Context, sessionID, key string) (string, bool, error)
	SetSession(ctx context.Context, sessionID, key, value string) error
	RemoveSession(ctx context.Context, sessionID, key string) error
}

// Scoped binds a backend to one session so callers only see relative keys.
func Scoped(backend Backend, sessionID string) Store {
	return &scoped{backend: backend, sessionID: strings.TrimSpace(sessionID)}
}

type scoped struct {
	backend   Backend
	sessionID string
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.GetSession(ctx, s.sessionID, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.SetSession(ctx, s.sessionID, key, value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.backend.RemoveSession(ctx, s.sessionID, key)
}
