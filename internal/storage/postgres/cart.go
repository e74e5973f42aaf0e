package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type cartRepository struct {
	q        Querier
	lockRows bool
}

// NewCartRepository создаёт репозиторий корзины.
func NewCartRepository(q Querier) storage.CartStorage {
	return &cartRepository{q: q}
}

func (r *cartRepository) ListCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	query := "SELECT id, user_id, product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY id"
	if r.lockRows {
		query += " FOR UPDATE"
	}
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem: один INSERT ... ON CONFLICT, увеличение количества выполняется на стороне БД
func (r *cartRepository) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	query := `INSERT INTO cart_items (user_id, product_id, quantity)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	          RETURNING id, user_id, product_id, quantity`
	item := &models.CartItem{}
	err := r.q.QueryRowContext(ctx, query, userID, productID, quantity).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return item, nil
}

func (r *cartRepository) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	query := `UPDATE cart_items SET quantity = $1
	          WHERE id = $2 AND user_id = $3
	          RETURNING id, user_id, product_id, quantity`
	item := &models.CartItem{}
	err := r.q.QueryRowContext(ctx, query, quantity, itemID, userID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

func (r *cartRepository) DeleteCartItem(ctx context.Context, userID, itemID int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.RowsAffected()
}
