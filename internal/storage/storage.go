package storage

import (
	"context"
	"errors"

	"github.com/linemk/storefront/internal/domain/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
)

// Имена бэкендов хранилища, выбираются при старте процесса
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// CatalogStorage: чтение каталога товаров и категорий.
type CatalogStorage interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	// GetProductsByIDs возвращает только найденные товары, отсутствующие id пропускаются.
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error)
	// ListProducts возвращает все товары или товары категории, если categoryID задан.
	ListProducts(ctx context.Context, categoryID *int64) ([]*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// CartStorage: строки корзины пользователя.
type CartStorage interface {
	ListCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error)
	// AddCartItem атомарно увеличивает количество существующей строки (userID, productID)
	// или создаёт новую строку.
	AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, userID, itemID int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) (int64, error)
}

// OrderStorage: заказы и их позиции.
type OrderStorage interface {
	// CreateOrder сохраняет заголовок, заполняя ID и CreatedAt.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItem(ctx context.Context, item *models.OrderLineItem) (*models.OrderLineItem, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// ListOrdersByUserID возвращает заказы пользователя, новые первыми.
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]*models.OrderLineItem, error)
}

type UserStorage interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser возвращает ErrUserExists при совпадении username или email.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Tx: репозитории, привязанные к одной единице работы.
type Tx interface {
	Catalog() CatalogStorage
	Carts() CartStorage
	Orders() OrderStorage
}

// Storage: общий интерфейс для всех бэкендов (память, postgres, mongo).
type Storage interface {
	Tx
	Users() UserStorage
	// WithinTx выполняет fn как единое целое: при ошибке ни одна запись fn не остаётся видимой.
	// Внутри fn нужно использовать переданные ctx и tx.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
	Backend() string
	Close(ctx context.Context) error
}
