package models

import "github.com/shopspring/decimal"

// Product представляет товар каталога. Для ядра корзины и заказов: только чтение
type Product struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`     // цена по прайсу
	SalePrice   decimal.NullDecimal `json:"salePrice"` // цена со скидкой, может отсутствовать
	IsOnSale    bool                `json:"isOnSale"`
	IsNew       bool                `json:"isNew"`
	Stock       int                 `json:"stock"`
	ImageURL    string              `json:"imageUrl"`
	CategoryID  *int64              `json:"categoryId,omitempty"`
}

// Category представляет категорию товаров
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl"`
}
