package service_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/linemk/storefront/internal/storage"
	"github.com/linemk/storefront/internal/storage/memory"
	"github.com/shopspring/decimal"
)

func newTestLogger() *slog.Logger {
	return logger.Discard()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedProduct кладёт товар с заданным id в хранилище
func seedProduct(s *memory.Storage, id int64, price string, salePrice string) *models.Product {
	p := models.Product{
		ID:       id,
		Name:     "product",
		Slug:     "product-" + decimal.NewFromInt(id).String(),
		Price:    dec(price),
		Stock:    10,
		ImageURL: "/img.png",
	}
	if salePrice != "" {
		p.IsOnSale = true
		p.SalePrice = decimal.NewNullDecimal(dec(salePrice))
	}
	return s.PutProduct(p)
}

var errInjected = errors.New("injected failure")

// flakyStorage подменяет очистку корзины вне транзакции
type flakyStorage struct {
	*memory.Storage
	clearFailures int32
	clearCalls    atomic.Int32
}

func (s *flakyStorage) Carts() storage.CartStorage {
	return &flakyCarts{CartStorage: s.Storage.Carts(), owner: s}
}

type flakyCarts struct {
	storage.CartStorage
	owner *flakyStorage
}

func (c *flakyCarts) ClearCart(ctx context.Context, userID int64) (int64, error) {
	n := c.owner.clearCalls.Add(1)
	if n <= c.owner.clearFailures {
		return 0, errInjected
	}
	return c.CartStorage.ClearCart(ctx, userID)
}

// brokenItemsStorage роняет запись второй позиции заказа внутри транзакции
type brokenItemsStorage struct {
	*memory.Storage
}

func (s *brokenItemsStorage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	return s.Storage.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return fn(ctx, &brokenItemsTx{Tx: tx})
	})
}

type brokenItemsTx struct {
	storage.Tx
	written int
}

func (t *brokenItemsTx) Orders() storage.OrderStorage {
	return &brokenOrders{OrderStorage: t.Tx.Orders(), tx: t}
}

type brokenOrders struct {
	storage.OrderStorage
	tx *brokenItemsTx
}

func (o *brokenOrders) CreateOrderItem(ctx context.Context, item *models.OrderLineItem) (*models.OrderLineItem, error) {
	if o.tx.written >= 1 {
		return nil, errInjected
	}
	o.tx.written++
	return o.OrderStorage.CreateOrderItem(ctx, item)
}
