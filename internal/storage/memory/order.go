package memory

import (
	"context"
	"sort"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type orderRepository struct {
	v view
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	var out *models.Order
	err := r.v.do(func(st *state) error {
		o := *order
		o.ID = st.next("orders")
		o.CreatedAt = r.v.s.now().UTC()
		st.orders[o.ID] = &o
		cp := o
		out = &cp
		return nil
	})
	return out, err
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, item *models.OrderLineItem) (*models.OrderLineItem, error) {
	var out *models.OrderLineItem
	err := r.v.do(func(st *state) error {
		it := *item
		it.ID = st.next("orderItems")
		st.orderItems[it.ID] = &it
		cp := it
		out = &cp
		return nil
	})
	return out, err
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var out *models.Order
	err := r.v.do(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return storage.ErrOrderNotFound
		}
		cp := *o
		out = &cp
		return nil
	})
	return out, err
}

func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	var out []*models.Order
	err := r.v.do(func(st *state) error {
		for _, o := range st.orders {
			if o.UserID == userID {
				cp := *o
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func (r *orderRepository) ListOrderItems(ctx context.Context, orderID int64) ([]*models.OrderLineItem, error) {
	var out []*models.OrderLineItem
	err := r.v.do(func(st *state) error {
		for _, it := range st.orderItems {
			if it.OrderID == orderID {
				cp := *it
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
