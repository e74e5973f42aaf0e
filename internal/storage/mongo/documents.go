package mongo

import (
	"fmt"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type categoryDoc struct {
	ID       int64  `bson:"id"`
	Name     string `bson:"name"`
	Slug     string `bson:"slug"`
	ImageURL string `bson:"imageUrl"`
}

func (d *categoryDoc) model() *models.Category {
	return &models.Category{ID: d.ID, Name: d.Name, Slug: d.Slug, ImageURL: d.ImageURL}
}

// productDoc читает цены как Decimal128 или double: каталог наполняется внешним процессом
type productDoc struct {
	ID          int64         `bson:"id"`
	Name        string        `bson:"name"`
	Slug        string        `bson:"slug"`
	Description string        `bson:"description"`
	Price       bson.RawValue `bson:"price"`
	SalePrice   bson.RawValue `bson:"salePrice,omitempty"`
	IsOnSale    bool          `bson:"isOnSale"`
	IsNew       bool          `bson:"isNew"`
	Stock       int           `bson:"stock"`
	ImageURL    string        `bson:"imageUrl"`
	CategoryID  *int64        `bson:"categoryId,omitempty"`
}

func (d *productDoc) model() (*models.Product, error) {
	price, ok, err := decimalFromRaw(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %d price: %w", d.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("product %d has no price", d.ID)
	}
	sale, saleOK, err := decimalFromRaw(d.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("product %d sale price: %w", d.ID, err)
	}
	p := &models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       price,
		IsOnSale:    d.IsOnSale,
		IsNew:       d.IsNew,
		Stock:       d.Stock,
		ImageURL:    d.ImageURL,
		CategoryID:  d.CategoryID,
	}
	if saleOK {
		p.SalePrice = decimal.NewNullDecimal(sale)
	}
	return p, nil
}

// decimalFromRaw возвращает ok=false для отсутствующего или null значения
func decimalFromRaw(v bson.RawValue) (decimal.Decimal, bool, error) {
	switch v.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		return decimal.Zero, false, nil
	case bson.TypeDecimal128:
		d, err := decimal.NewFromString(v.Decimal128().String())
		return d, err == nil, err
	case bson.TypeDouble:
		return decimal.NewFromFloat(v.Double()), true, nil
	case bson.TypeInt32:
		return decimal.NewFromInt32(v.Int32()), true, nil
	case bson.TypeInt64:
		return decimal.NewFromInt(v.Int64()), true, nil
	default:
		return decimal.Zero, false, fmt.Errorf("unsupported numeric type %s", v.Type)
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

type cartItemDoc struct {
	ID        int64 `bson:"id"`
	UserID    int64 `bson:"userId"`
	ProductID int64 `bson:"productId"`
	Quantity  int   `bson:"quantity"`
}

func (d *cartItemDoc) model() *models.CartItem {
	return &models.CartItem{ID: d.ID, UserID: d.UserID, ProductID: d.ProductID, Quantity: d.Quantity}
}

type orderDoc struct {
	ID        int64                `bson:"id"`
	UserID    int64                `bson:"userId"`
	Total     primitive.Decimal128 `bson:"total"`
	Status    string               `bson:"status"`
	Address   string               `bson:"address"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func (d *orderDoc) model() (*models.Order, error) {
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return nil, fmt.Errorf("order %d total: %w", d.ID, err)
	}
	return &models.Order{
		ID:        d.ID,
		UserID:    d.UserID,
		Total:     total,
		Status:    models.OrderStatus(d.Status),
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
	}, nil
}

type orderItemDoc struct {
	ID        int64                `bson:"id"`
	OrderID   int64                `bson:"orderId"`
	ProductID int64                `bson:"productId"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
}

func (d *orderItemDoc) model() (*models.OrderLineItem, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("order item %d price: %w", d.ID, err)
	}
	return &models.OrderLineItem{
		ID:        d.ID,
		OrderID:   d.OrderID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		Price:     price,
	}, nil
}

type userDoc struct {
	ID       int64  `bson:"id"`
	Username string `bson:"username"`
	Email    string `bson:"email"`
	Password []byte `bson:"password"`
	FullName string `bson:"fullName,omitempty"`
	Address  string `bson:"address,omitempty"`
	IsAdmin  bool   `bson:"isAdmin"`
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:       d.ID,
		Username: d.Username,
		Email:    d.Email,
		PassHash: d.Password,
		FullName: d.FullName,
		Address:  d.Address,
		IsAdmin:  d.IsAdmin,
	}
}
