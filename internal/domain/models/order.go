package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// допустимые переходы статуса заказа
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransitionTo сообщает, разрешён ли переход из текущего статуса в next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order: заголовок заказа. Total вычисляется на сервере один раз при создании
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	Address   string          `json:"address"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderLineItem: позиция заказа. Price фиксирует цену за единицу на момент оформления
type OrderLineItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
