package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/pricing"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/linemk/storefront/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutOptions() service.CheckoutOptions {
	return service.CheckoutOptions{Shipping: pricing.DefaultShippingCost, ClearRetries: 3}
}

// fillCart: товар за 10 x2 и товар по распродаже 8 (по прайсу 12) x1
func fillCart(t *testing.T, store *memory.Storage, userID int64) {
	t.Helper()
	seedProduct(store, 1, "10", "")
	seedProduct(store, 2, "12", "8")
	ctx := context.Background()
	_, err := store.Carts().AddCartItem(ctx, userID, 1, 2)
	require.NoError(t, err)
	_, err = store.Carts().AddCartItem(ctx, userID, 2, 1)
	require.NoError(t, err)
}

func TestPlaceOrder_ComputesTotalAndSnapshotsPrices(t *testing.T) {
	store := memory.New()
	fillCart(t, store, 1)
	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())
	ctx := context.Background()

	clientTotal := dec("0.01")
	order, err := builder.PlaceOrder(ctx, 1, "Baker St 221b", &clientTotal)
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(dec("32.99")), "total %s", order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Baker St 221b", order.Address)
	assert.False(t, order.CreatedAt.IsZero())

	items, err := store.Orders().ListOrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Price.Equal(dec("10")))
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[1].Price.Equal(dec("8")))
	assert.Equal(t, 1, items[1].Quantity)

	cart, err := newCartService(store).ListWithPricing(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart must be cleared after order")

	// позже цена в каталоге меняется, заказ остаётся прежним
	seedProduct(store, 1, "99", "")
	stored, err := store.Orders().GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(dec("32.99")))
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	store := memory.New()
	seedProduct(store, 1, "10", "")
	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())
	reader := service.NewOrderReader(newTestLogger(), store.Catalog(), store.Orders())
	ctx := context.Background()

	before, err := reader.ListOrders(ctx, 1)
	require.NoError(t, err)

	_, err = builder.PlaceOrder(ctx, 1, "somewhere", nil)
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	assert.Equal(t, "Cart is empty", service.MessageOf(err))

	after, err := reader.ListOrders(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestPlaceOrder_OnlyUnresolvableItems(t *testing.T) {
	store := memory.New()
	seedProduct(store, 1, "10", "")
	ctx := context.Background()
	_, err := store.Carts().AddCartItem(ctx, 1, 1, 1)
	require.NoError(t, err)
	store.DeleteProduct(1)

	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())
	_, err = builder.PlaceOrder(ctx, 1, "somewhere", nil)
	assert.ErrorIs(t, err, service.ErrEmptyCart)
}

func TestPlaceOrder_RequiresAddress(t *testing.T) {
	store := memory.New()
	fillCart(t, store, 1)
	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())

	_, err := builder.PlaceOrder(context.Background(), 1, "   ", nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestPlaceOrder_RollsBackOnLineItemFailure(t *testing.T) {
	mem := memory.New()
	fillCart(t, mem, 1)
	builder := service.NewOrderBuilder(newTestLogger(), &brokenItemsStorage{Storage: mem}, checkoutOptions())
	ctx := context.Background()

	_, err := builder.PlaceOrder(ctx, 1, "somewhere", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrStorageFailure)
	assert.ErrorIs(t, err, errInjected)

	orders, err := mem.Orders().ListOrdersByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// позиция, записанная до сбоя, тоже откатывается
	items, err := mem.Orders().ListOrderItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	cart, err := mem.Carts().ListCartItems(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart, 2)
}

func TestPlaceOrder_CartClearRetried(t *testing.T) {
	mem := memory.New()
	fillCart(t, mem, 1)
	store := &flakyStorage{Storage: mem, clearFailures: 2}
	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())
	ctx := context.Background()

	order, err := builder.PlaceOrder(ctx, 1, "somewhere", nil)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, int32(3), store.clearCalls.Load())

	cart, err := mem.Carts().ListCartItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestPlaceOrder_CartClearExhaustedKeepsOrder(t *testing.T) {
	mem := memory.New()
	fillCart(t, mem, 1)
	store := &flakyStorage{Storage: mem, clearFailures: 100}
	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())
	ctx := context.Background()

	order, err := builder.PlaceOrder(ctx, 1, "somewhere", nil)
	require.NoError(t, err, "cart clear failure must not fail the committed order")
	assert.Equal(t, int32(3), store.clearCalls.Load())

	stored, err := mem.Orders().GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(dec("32.99")))

	cart, err := mem.Carts().ListCartItems(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart, 2)
}

func TestPlaceOrder_ConcurrentSameUserOrdersOnce(t *testing.T) {
	store := memory.New()
	fillCart(t, store, 1)
	builder := service.NewOrderBuilder(newTestLogger(), store, checkoutOptions())
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		empty     int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := builder.PlaceOrder(ctx, 1, "somewhere", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case service.KindOf(err) == service.KindEmptyCart:
				empty++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, empty)

	orders, err := store.Orders().ListOrdersByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrder_CustomShipping(t *testing.T) {
	store := memory.New()
	fillCart(t, store, 1)
	opts := checkoutOptions()
	opts.Shipping = decimal.Zero
	builder := service.NewOrderBuilder(newTestLogger(), store, opts)

	order, err := builder.PlaceOrder(context.Background(), 1, "somewhere", nil)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(dec("28")))
}

var _ storage.Storage = (*flakyStorage)(nil)
var _ storage.Storage = (*brokenItemsStorage)(nil)
