package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProductSnapshot: данные товара для отображения в истории заказов
type ProductSnapshot struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// OrderItemDetails: позиция заказа. Product равен nil, если товар уже удалён
type OrderItemDetails struct {
	models.OrderLineItem
	Product *ProductSnapshot `json:"product"`
}

type OrderDetails struct {
	models.Order
	Items []OrderItemDetails `json:"items"`
}

type OrderReader interface {
	ListOrders(ctx context.Context, userID int64) ([]*OrderDetails, error)
	GetOrder(ctx context.Context, orderID, userID int64) (*OrderDetails, error)
}

type orderReader struct {
	log     *slog.Logger
	catalog storage.CatalogStorage
	orders  storage.OrderStorage
	tracer  trace.Tracer
}

func NewOrderReader(log *slog.Logger, catalog storage.CatalogStorage, orders storage.OrderStorage) OrderReader {
	return &orderReader{
		log:     log,
		catalog: catalog,
		orders:  orders,
		tracer:  otel.Tracer("storefront-orders"),
	}
}

// ListOrders возвращает заказы пользователя (новые первыми) вместе с позициями
func (s *orderReader) ListOrders(ctx context.Context, userID int64) ([]*OrderDetails, error) {
	const op = "service.OrderReader.ListOrders"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	ctx, span := s.tracer.Start(ctx, "ListOrders", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	orders, err := s.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}

	result := make([]*OrderDetails, 0, len(orders))
	for _, o := range orders {
		details, err := s.withItems(ctx, o)
		if err != nil {
			logger.Error("failed to load order items", slog.Int64("orderID", o.ID), slog.Any("error", err))
			return nil, storageFailure(op, err)
		}
		result = append(result, details)
	}
	return result, nil
}

// GetOrder возвращает заказ только его владельцу
func (s *orderReader) GetOrder(ctx context.Context, orderID, userID int64) (*OrderDetails, error) {
	const op = "service.OrderReader.GetOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.Int64("userID", userID))

	ctx, span := s.tracer.Start(ctx, "GetOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, newError(KindNotFound, "Order not found", err)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	if order.UserID != userID {
		logger.Warn("order requested by non-owner")
		return nil, newError(KindForbidden, "Not authorized", nil)
	}

	details, err := s.withItems(ctx, order)
	if err != nil {
		logger.Error("failed to load order items", slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return details, nil
}

func (s *orderReader) withItems(ctx context.Context, order *models.Order) (*OrderDetails, error) {
	items, err := s.orders.ListOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	details := &OrderDetails{Order: *order, Items: make([]OrderItemDetails, 0, len(items))}
	for _, it := range items {
		d := OrderItemDetails{OrderLineItem: *it}
		if p, ok := byID[it.ProductID]; ok {
			d.Product = &ProductSnapshot{ID: p.ID, Name: p.Name, ImageURL: p.ImageURL}
		}
		details.Items = append(details.Items, d)
	}
	return details, nil
}
