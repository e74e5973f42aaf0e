package handlers

import (
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/service"
	"github.com/shopspring/decimal"
)

// Деньги хранятся в decimal, а клиенту отдаются числом

type ProductView struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	SalePrice   *float64         `json:"salePrice"`
	IsOnSale    bool             `json:"isOnSale"`
	IsNew       bool             `json:"isNew"`
	Stock       int              `json:"stock"`
	ImageURL    string           `json:"imageUrl"`
	CategoryID  *int64           `json:"categoryId"`
	Category    *models.Category `json:"category,omitempty"`
}

func toProductView(p *models.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       money(p.Price),
		IsOnSale:    p.IsOnSale,
		IsNew:       p.IsNew,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
	}
	if p.SalePrice.Valid {
		sale := money(p.SalePrice.Decimal)
		v.SalePrice = &sale
	}
	return v
}

type CartProductView struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"` // цена с учётом распродажи
	ImageURL      string  `json:"imageUrl"`
	IsOnSale      bool    `json:"isOnSale"`
	OriginalPrice float64 `json:"originalPrice"`
}

type CartItemView struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Product  CartProductView `json:"product"`
}

type CartResponse struct {
	Items []CartItemView `json:"items"`
	Total float64        `json:"total"`
}

func toCartResponse(cart *service.PricedCart) CartResponse {
	resp := CartResponse{Items: make([]CartItemView, 0, len(cart.Items)), Total: money(cart.Subtotal)}
	for _, it := range cart.Items {
		resp.Items = append(resp.Items, CartItemView{
			ID:       it.Item.ID,
			Quantity: it.Item.Quantity,
			Product: CartProductView{
				ID:            it.Product.ID,
				Name:          it.Product.Name,
				Price:         money(it.UnitPrice),
				ImageURL:      it.Product.ImageURL,
				IsOnSale:      it.Product.IsOnSale,
				OriginalPrice: money(it.Product.Price),
			},
		})
	}
	return resp
}

type OrderItemView struct {
	ID        int64                    `json:"id"`
	OrderID   int64                    `json:"orderId"`
	ProductID int64                    `json:"productId"`
	Quantity  int                      `json:"quantity"`
	Price     float64                  `json:"price"`
	Product   *service.ProductSnapshot `json:"product"`
}

type OrderView struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"userId"`
	Total     float64            `json:"total"`
	Status    models.OrderStatus `json:"status"`
	Address   string             `json:"address"`
	CreatedAt time.Time          `json:"createdAt"`
	Items     []OrderItemView    `json:"items,omitempty"`
}

func toOrderView(o *models.Order) OrderView {
	return OrderView{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     money(o.Total),
		Status:    o.Status,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
	}
}

func toOrderDetailsView(o *service.OrderDetails) OrderView {
	v := toOrderView(&o.Order)
	v.Items = make([]OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		v.Items = append(v.Items, OrderItemView{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     money(it.Price),
			Product:   it.Product,
		})
	}
	return v
}

type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	IsAdmin  bool   `json:"isAdmin"`
}

func toUserView(u *models.User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Address:  u.Address,
		IsAdmin:  u.IsAdmin,
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
