package models

// CartItem: строка корзины пользователя. Пара (UserID, ProductID) уникальна
type CartItem struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
