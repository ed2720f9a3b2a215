package localstore_test

import (
	"testing"

	"github.com/nikolayk812/foodcart/internal/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := t.Context()
	store := localstore.NewMemory()

	_, found, err := store.Get(ctx, "user_cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "user_cart", `[{"id":"p1"}]`))

	value, found, err := store.Get(ctx, "user_cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"p1"}]`, value)

	require.NoError(t, store.Remove(ctx, "user_cart"))
	require.NoError(t, store.Remove(ctx, "user_cart"))

	_, found, err = store.Get(ctx, "user_cart")
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, store.Ping(ctx))
}
