package memory

import (
	"context"
	"sort"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type cartRepository struct {
	v view
}

func (r *cartRepository) ListCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	var out []*models.CartItem
	err := r.v.do(func(st *state) error {
		for _, item := range st.cartItems {
			if item.UserID == userID {
				cp := *item
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// AddCartItem выполняет поиск и вставку под одним мьютексом, поэтому дубликатов не бывает
func (r *cartRepository) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.v.do(func(st *state) error {
		for _, item := range st.cartItems {
			if item.UserID == userID && item.ProductID == productID {
				item.Quantity += quantity
				cp := *item
				out = &cp
				return nil
			}
		}
		item := &models.CartItem{
			ID:        st.next("cartItems"),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		st.cartItems[item.ID] = item
		cp := *item
		out = &cp
		return nil
	})
	return out, err
}

func (r *cartRepository) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.v.do(func(st *state) error {
		item, ok := st.cartItems[itemID]
		if !ok || item.UserID != userID {
			return storage.ErrCartItemNotFound
		}
		item.Quantity = quantity
		cp := *item
		out = &cp
		return nil
	})
	return out, err
}

func (r *cartRepository) DeleteCartItem(ctx context.Context, userID, itemID int64) (bool, error) {
	deleted := false
	err := r.v.do(func(st *state) error {
		item, ok := st.cartItems[itemID]
		if !ok || item.UserID != userID {
			return nil
		}
		delete(st.cartItems, itemID)
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *cartRepository) ClearCart(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.v.do(func(st *state) error {
		for id, item := range st.cartItems {
			if item.UserID == userID {
				delete(st.cartItems, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
