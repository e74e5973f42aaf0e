package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	db      *mongo.Database
	journal *journal
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	id, err := nextSequence(ctx, r.db, collOrders)
	if err != nil {
		return nil, err
	}
	total, err := toDecimal128(order.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order total: %w", err)
	}
	// время в Mongo хранится с точностью до миллисекунд
	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	doc := orderDoc{
		ID:        id,
		UserID:    order.UserID,
		Total:     total,
		Status:    string(order.Status),
		Address:   order.Address,
		CreatedAt: createdAt,
	}
	if _, err := r.db.Collection(collOrders).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if r.journal != nil {
		r.journal.orderIDs = append(r.journal.orderIDs, id)
	}

	created := *order
	created.ID = id
	created.CreatedAt = createdAt
	return &created, nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, item *models.OrderLineItem) (*models.OrderLineItem, error) {
	id, err := nextSequence(ctx, r.db, collOrderItems)
	if err != nil {
		return nil, err
	}
	price, err := toDecimal128(item.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order item price: %w", err)
	}
	doc := orderItemDoc{
		ID:        id,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     price,
	}
	if _, err := r.db.Collection(collOrderItems).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	created := *item
	created.ID = id
	return &created, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var doc orderDoc
	if err := r.db.Collection(collOrders).FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.model()
}

func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}})
	cur, err := r.db.Collection(collOrders).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	orders := make([]*models.Order, 0, len(docs))
	for i := range docs {
		o, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *orderRepository) ListOrderItems(ctx context.Context, orderID int64) ([]*models.OrderLineItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := r.db.Collection(collOrderItems).Find(ctx, bson.M{"orderId": orderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	var docs []orderItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	items := make([]*models.OrderLineItem, 0, len(docs))
	for i := range docs {
		it, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
