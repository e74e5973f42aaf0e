package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/keylock"
	"github.com/linemk/storefront/internal/pricing"
	"github.com/linemk/storefront/internal/storage"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CheckoutOptions struct {
	Shipping     decimal.Decimal
	ClearRetries int           // сколько раз пытаться очистить корзину после фиксации заказа
	ClearBackoff time.Duration // шаг линейной паузы между попытками
}

type OrderBuilder interface {
	PlaceOrder(ctx context.Context, userID int64, address string, clientTotal *decimal.Decimal) (*models.Order, error)
}

type orderBuilder struct {
	log    *slog.Logger
	store  storage.Storage
	engine *pricing.Engine
	locks  *keylock.Locker[int64]
	opts   CheckoutOptions
	tracer trace.Tracer
}

func NewOrderBuilder(log *slog.Logger, store storage.Storage, opts CheckoutOptions) OrderBuilder {
	if opts.ClearRetries < 1 {
		opts.ClearRetries = 1
	}
	return &orderBuilder{
		log:    log,
		store:  store,
		engine: pricing.NewEngine(opts.Shipping),
		locks:  keylock.New[int64](),
		opts:   opts,
		tracer: otel.Tracer("storefront-checkout"),
	}
}

// PlaceOrder оформляет заказ из текущей корзины пользователя.
// Чтение корзины, расчёт и запись заказа с позициями идут одной транзакцией.
// Очистка корзины выполняется после фиксации и на заказ уже не влияет.
// clientTotal только сверяется с серверной суммой и в заказ не попадает
func (s *orderBuilder) PlaceOrder(ctx context.Context, userID int64, address string, clientTotal *decimal.Decimal) (*models.Order, error) {
	const op = "service.OrderBuilder.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	ctx, span := s.tracer.Start(ctx, "PlaceOrder", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, newError(KindInvalidInput, "Address is required", nil)
	}

	// два оформления одного пользователя не должны увидеть одну и ту же неочищенную корзину
	unlock := s.locks.Lock(userID)
	defer unlock()

	logger.Info("starting checkout")

	var (
		order *models.Order
		lines int
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		// пустоту проверяем только после загрузки
		cart, err := priceCart(ctx, tx.Carts(), tx.Catalog(), userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return newError(KindEmptyCart, "Cart is empty", nil)
		}

		total := s.engine.GrandTotal(cart.Lines())
		order, err = tx.Orders().CreateOrder(ctx, &models.Order{
			UserID:  userID,
			Total:   total,
			Status:  models.StatusPending,
			Address: address,
		})
		if err != nil {
			return err
		}

		// цены берём из уже загруженной корзины, повторно каталог не читаем
		for _, it := range cart.Items {
			if _, err := tx.Orders().CreateOrderItem(ctx, &models.OrderLineItem{
				OrderID:   order.ID,
				ProductID: it.Item.ProductID,
				Quantity:  it.Item.Quantity,
				Price:     it.UnitPrice,
			}); err != nil {
				return err
			}
		}
		lines = len(cart.Items)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")
		var svcErr *Error
		if errors.As(err, &svcErr) {
			logger.Info("checkout rejected", slog.String("reason", svcErr.Message))
			return nil, svcErr
		}
		logger.Error("checkout transaction failed", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}

	if clientTotal != nil && !clientTotal.Equal(order.Total) {
		logger.Warn("client total differs from server total, using server total",
			slog.String("client_total", clientTotal.String()),
			slog.String("server_total", order.Total.String()),
		)
	}

	span.SetAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.Int("order.lines", lines),
		attribute.String("order.total", order.Total.String()),
	)
	logger.Info("order committed", slog.Int64("orderID", order.ID), slog.String("total", order.Total.String()))

	s.clearCartAfterCommit(context.WithoutCancel(ctx), logger, userID, order.ID)
	return order, nil
}

// clearCartAfterCommit очищает корзину с ограниченным числом попыток.
// Неудача не отменяет заказ, а оставляет запись для ручной сверки
func (s *orderBuilder) clearCartAfterCommit(ctx context.Context, logger *slog.Logger, userID, orderID int64) {
	var err error
	for attempt := 1; attempt <= s.opts.ClearRetries; attempt++ {
		if _, err = s.store.Carts().ClearCart(ctx, userID); err == nil {
			return
		}
		logger.Error("failed to clear cart after order",
			slog.Int64("orderID", orderID),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		if attempt < s.opts.ClearRetries && s.opts.ClearBackoff > 0 {
			time.Sleep(s.opts.ClearBackoff * time.Duration(attempt))
		}
	}
	logger.Warn("cart not cleared after order commit, reconciliation required",
		slog.Int64("orderID", orderID),
		slog.Int("attempts", s.opts.ClearRetries),
		slog.Any("error", err),
	)
}
