package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type orderRepository struct {
	q Querier
}

// NewOrderRepository создаёт репозиторий заказов.
func NewOrderRepository(q Querier) storage.OrderStorage {
	return &orderRepository{q: q}
}

// CreateOrder вставляет заголовок заказа; id и время создания назначает БД.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := `INSERT INTO orders (user_id, total, status, address, created_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          RETURNING id, created_at`
	created := *order
	err := r.q.QueryRowContext(ctx, query, order.UserID, order.Total, order.Status, order.Address).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &created, nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, item *models.OrderLineItem) (*models.OrderLineItem, error) {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	created := *item
	err := r.q.QueryRowContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.Price).
		Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return &created, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o := &models.Order{}
	row := r.q.QueryRowContext(ctx, "SELECT id, user_id, total, status, address, created_at FROM orders WHERE id = $1", id)
	if err := row.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.Address, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, total, status, address, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o := &models.Order{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.Address, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListOrderItems(ctx context.Context, orderID int64) ([]*models.OrderLineItem, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderLineItem
	for rows.Next() {
		it := &models.OrderLineItem{}
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
