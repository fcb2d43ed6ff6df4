package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseras/storefront-backend/internal/localstore"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := localstore.Scoped(localstore.NewMemory(), "sess-1")

	acct, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Nil(t, acct)

	require.NoError(t, store.Set(ctx, localstore.KeyAccount, `{"id":"acc-1","fullName":"Lan Nguyen","email":"lan@example.com"}`))
	acct, err = Load(ctx, store)
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "acc-1", acct.ID)
	assert.Equal(t, "Lan Nguyen", acct.FullName)

	require.NoError(t, store.Set(ctx, localstore.KeyAccount, "nope"))
	_, err = Load(ctx, store)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
