// Package account reads the shopper account cached in device storage by the auth frontend.
package account

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pulseras/storefront-backend/internal/localstore"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

// Account is the session account snapshot; the auth service owns it.
type Account struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Load returns nil, nil when the session has no account record.
func Load(ctx context.Context, store localstore.Store) (*Account, error) {
	raw, ok, err := store.Get(ctx, localstore.KeyAccount)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var acct Account
	if err := json.Unmarshal([]byte(raw), &acct); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account record")
	}
	return &acct, nil
}
