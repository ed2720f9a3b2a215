package cart_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nikolayk812/foodcart/internal/cart"
	"github.com/nikolayk812/foodcart/internal/localstore"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySessions(t *testing.T) {
	ctx := t.Context()
	local := localstore.NewMemory()
	log, _ := test.NewNullLogger()

	registry := cart.NewRegistry(local, newFakeDocuments(), "", log)

	phone, err := registry.Session(ctx, "phone")
	require.NoError(t, err)
	tablet, err := registry.Session(ctx, "tablet")
	require.NoError(t, err)

	again, err := registry.Session(ctx, "phone")
	require.NoError(t, err)
	assert.Same(t, phone, again)

	require.NoError(t, phone.AddToCart(pizza(1, 100)))
	assert.Empty(t, tablet.Items())

	_, err = registry.Session(ctx, "")
	require.EqualError(t, err, "deviceID is empty")

	require.NoError(t, registry.Close(ctx))

	_, found, err := local.Get(ctx, "user_cart:phone")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = local.Get(ctx, "user_cart:tablet")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = registry.Session(ctx, "phone")
	require.ErrorIs(t, err, cart.ErrStoreClosed)
}

func TestRegistryHydratesFromDeviceKey(t *testing.T) {
	ctx := t.Context()
	local := localstore.NewMemory()
	log, _ := test.NewNullLogger()

	require.NoError(t, local.Set(ctx, "carts:phone", `[{"id":"p1","qty":2,"size":"Medium","veg":true,"pricePerUnit":"100","totalPrice":"200","restaurantName":"Meow Cafe"}]`))

	registry := cart.NewRegistry(local, newFakeDocuments(), "carts", log)
	defer func() {
		assert.NoError(t, registry.Close(ctx))
	}()

	store, err := registry.Session(ctx, "phone")
	require.NoError(t, err)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
	assertDecimal(t, 200, items[0].TotalPrice)
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := t.Context()
	local := localstore.NewMemory()
	log, _ := test.NewNullLogger()

	registry := cart.NewRegistry(local, newFakeDocuments(), "", log, cart.WithMaxSessions(2))
	defer func() {
		assert.NoError(t, registry.Close(ctx))
	}()

	phone, err := registry.Session(ctx, "phone")
	require.NoError(t, err)
	require.NoError(t, phone.AddToCart(pizza(2, 100)))

	time.Sleep(time.Millisecond)
	_, err = registry.Session(ctx, "tablet")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = registry.Session(ctx, "laptop")
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	// phone was evicted, its cart comes back from the device key
	again, err := registry.Session(ctx, "phone")
	require.NoError(t, err)
	assert.NotSame(t, phone, again)
	require.Len(t, again.Items(), 1)
	assert.Equal(t, 2, again.Items()[0].Qty)
	assert.Equal(t, 2, registry.Len())
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	ctx := t.Context()
	log, _ := test.NewNullLogger()

	registry := cart.NewRegistry(localstore.NewMemory(), newFakeDocuments(), "", log, cart.WithIdleTimeout(20*time.Millisecond))
	defer func() {
		assert.NoError(t, registry.Close(ctx))
	}()

	phone, err := registry.Session(ctx, "phone")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = registry.Session(ctx, "tablet")
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	again, err := registry.Session(ctx, "phone")
	require.NoError(t, err)
	assert.NotSame(t, phone, again)
}

func TestRegistryBoundedUnderRotatingDevices(t *testing.T) {
	ctx := t.Context()
	log, _ := test.NewNullLogger()

	registry := cart.NewRegistry(localstore.NewMemory(), newFakeDocuments(), "", log, cart.WithMaxSessions(50))

	for i := range 1000 {
		_, err := registry.Session(ctx, fmt.Sprintf("device-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 50, registry.Len())

	require.NoError(t, registry.Close(ctx))
}

func TestRegistryConcurrentSameDevice(t *testing.T) {
	ctx := t.Context()
	log, _ := test.NewNullLogger()

	registry := cart.NewRegistry(localstore.NewMemory(), newFakeDocuments(), "", log)
	defer func() {
		assert.NoError(t, registry.Close(ctx))
	}()

	var (
		wg     sync.WaitGroup
		stores = make([]*cart.Store, 20)
	)
	for i := range stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store, err := registry.Session(ctx, "phone")
			assert.NoError(t, err)
			stores[i] = store
		}()
	}
	wg.Wait()

	for _, store := range stores {
		assert.Same(t, stores[0], store)
	}
	assert.Equal(t, 1, registry.Len())
}
