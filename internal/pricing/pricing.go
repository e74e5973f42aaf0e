// Package pricing вычисляет цены корзины и заказа. Все функции чистые и не обращаются к хранилищу
package pricing

import (
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/shopspring/decimal"
)

// DefaultShippingCost: фиксированная стоимость доставки на весь заказ
var DefaultShippingCost = decimal.RequireFromString("4.99")

// Line описывает позицию для расчёта: цену за единицу и количество
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// EffectiveUnitPrice возвращает цену со скидкой, если товар участвует в распродаже
// и цена со скидкой задана, иначе цену по прайсу. Нулевая цена со скидкой считается незаданной
func EffectiveUnitPrice(p *models.Product) decimal.Decimal {
	if p.IsOnSale && p.SalePrice.Valid && !p.SalePrice.Decimal.IsZero() {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// NewLine строит позицию по актуальному состоянию товара
func NewLine(p *models.Product, quantity int) Line {
	return Line{UnitPrice: EffectiveUnitPrice(p), Quantity: quantity}
}

func LineTotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	return sum
}

// Engine добавляет к подытогу стоимость доставки
type Engine struct {
	shipping decimal.Decimal
}

func NewEngine(shipping decimal.Decimal) *Engine {
	return &Engine{shipping: shipping}
}

func (e *Engine) ShippingCost() decimal.Decimal {
	return e.shipping
}

// GrandTotal = подытог + доставка. Доставка добавляется один раз на заказ
func (e *Engine) GrandTotal(lines []Line) decimal.Decimal {
	return Subtotal(lines).Add(e.shipping)
}
