package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(s *memory.Storage) service.CartService {
	return service.NewCartService(newTestLogger(), s.Catalog(), s.Carts())
}

func TestAddItem_MergesQuantity(t *testing.T) {
	store := memory.New()
	seedProduct(store, 5, "10", "")
	svc := newCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 5, 2)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, 1, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	items, err := store.Carts().ListCartItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1, "same product must not produce a second row")
	assert.Equal(t, 4, items[0].Quantity)
}

func TestAddItem_Errors(t *testing.T) {
	store := memory.New()
	seedProduct(store, 5, "10", "")
	svc := newCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 999, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "Product not found", service.MessageOf(err))

	_, err = svc.AddItem(ctx, 1, 5, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSetQuantity(t *testing.T) {
	store := memory.New()
	seedProduct(store, 5, "10", "")
	svc := newCartService(store)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, 1, 5, 1)
	require.NoError(t, err)

	updated, err := svc.SetQuantity(ctx, 1, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	for _, q := range []int{0, -3} {
		_, err = svc.SetQuantity(ctx, 1, item.ID, q)
		assert.ErrorIs(t, err, service.ErrInvalidInput, "quantity %d", q)
	}

	_, err = svc.SetQuantity(ctx, 1, 12345, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// чужой элемент корзины выглядит как несуществующий
	_, err = svc.SetQuantity(ctx, 2, item.ID, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)

	items, err := store.Carts().ListCartItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	store := memory.New()
	seedProduct(store, 5, "10", "")
	svc := newCartService(store)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, 1, 5, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveItem(ctx, 2, item.ID), service.ErrNotFound)
	assert.NoError(t, svc.RemoveItem(ctx, 1, item.ID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, 1, item.ID), service.ErrNotFound)
}

func TestClear_Idempotent(t *testing.T) {
	store := memory.New()
	seedProduct(store, 5, "10", "")
	seedProduct(store, 6, "3", "")
	svc := newCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 5, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, 6, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))
	require.NoError(t, svc.Clear(ctx, 1))

	cart, err := svc.ListWithPricing(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestListWithPricing(t *testing.T) {
	store := memory.New()
	seedProduct(store, 1, "10", "")
	seedProduct(store, 2, "12", "8")
	seedProduct(store, 3, "50", "")
	svc := newCartService(store)
	ctx := context.Background()

	for _, add := range []struct {
		productID int64
		qty       int
	}{{1, 2}, {2, 1}, {3, 1}} {
		_, err := svc.AddItem(ctx, 7, add.productID, add.qty)
		require.NoError(t, err)
	}

	// товар удалён из каталога после добавления в корзину
	store.DeleteProduct(3)

	cart, err := svc.ListWithPricing(ctx, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	assert.True(t, cart.Items[0].UnitPrice.Equal(dec("10")))
	assert.True(t, cart.Items[0].LineTotal.Equal(dec("20")))
	assert.True(t, cart.Items[1].UnitPrice.Equal(dec("8")))
	assert.True(t, cart.Items[1].Product.Price.Equal(dec("12")))
	assert.True(t, cart.Subtotal.Equal(dec("28")), "subtotal %s", cart.Subtotal)

	// цена читается из каталога при каждом просмотре
	seedProduct(store, 1, "11", "")
	cart, err = svc.ListWithPricing(ctx, 7)
	require.NoError(t, err)
	assert.True(t, cart.Subtotal.Equal(dec("30")), "subtotal %s", cart.Subtotal)
}

func TestAddItem_ConcurrentNoLostUpdates(t *testing.T) {
	store := memory.New()
	seedProduct(store, 5, "10", "")
	svc := newCartService(store)
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, 1, 5, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := store.Carts().ListCartItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
}
