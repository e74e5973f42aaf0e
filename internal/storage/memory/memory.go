// Package memory: хранилище в памяти процесса. Используется для локального запуска и тестов
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type state struct {
	seq        map[string]int64
	categories map[int64]*models.Category
	products   map[int64]*models.Product
	cartItems  map[int64]*models.CartItem
	orders     map[int64]*models.Order
	orderItems map[int64]*models.OrderLineItem
	users      map[int64]*models.User
}

func newState() *state {
	return &state{
		seq:        make(map[string]int64),
		categories: make(map[int64]*models.Category),
		products:   make(map[int64]*models.Product),
		cartItems:  make(map[int64]*models.CartItem),
		orders:     make(map[int64]*models.Order),
		orderItems: make(map[int64]*models.OrderLineItem),
		users:      make(map[int64]*models.User),
	}
}

// clone делает глубокую копию для отката транзакции
func (st *state) clone() *state {
	c := newState()
	for k, v := range st.seq {
		c.seq[k] = v
	}
	for k, v := range st.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range st.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range st.cartItems {
		cp := *v
		c.cartItems[k] = &cp
	}
	for k, v := range st.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, v := range st.orderItems {
		cp := *v
		c.orderItems[k] = &cp
	}
	for k, v := range st.users {
		cp := *v
		c.users[k] = &cp
	}
	return c
}

func (st *state) next(name string) int64 {
	st.seq[name]++
	return st.seq[name]
}

// Storage хранит все данные под одним мьютексом.
type Storage struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{st: newState(), now: time.Now}
}

// view: доступ к состоянию; внутри WithinTx мьютекс уже захвачен
type view struct {
	s    *Storage
	inTx bool
}

func (v view) do(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.st)
}

func (s *Storage) Catalog() storage.CatalogStorage { return &catalogRepository{view{s: s}} }
func (s *Storage) Carts() storage.CartStorage      { return &cartRepository{view{s: s}} }
func (s *Storage) Orders() storage.OrderStorage    { return &orderRepository{view{s: s}} }
func (s *Storage) Users() storage.UserStorage      { return &userRepository{view{s: s}} }

type tx struct {
	v view
}

func (t *tx) Catalog() storage.CatalogStorage { return &catalogRepository{t.v} }
func (t *tx) Carts() storage.CartStorage      { return &cartRepository{t.v} }
func (t *tx) Orders() storage.OrderStorage    { return &orderRepository{t.v} }

// WithinTx держит мьютекс на всё время fn и восстанавливает снимок состояния при ошибке.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.st.clone()
	if err := fn(ctx, &tx{v: view{s: s, inTx: true}}); err != nil {
		s.st = backup
		return err
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error { return nil }

func (s *Storage) Backend() string { return storage.BackendMemory }

func (s *Storage) Close(ctx context.Context) error { return nil }

// PutCategory добавляет или заменяет категорию. Нулевой ID назначается автоматически
func (s *Storage) PutCategory(c models.Category) *models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.next("categories")
	} else if c.ID > s.st.seq["categories"] {
		s.st.seq["categories"] = c.ID
	}
	s.st.categories[c.ID] = &c
	cp := c
	return &cp
}

// PutProduct добавляет или заменяет товар; так внешний администратор меняет каталог
func (s *Storage) PutProduct(p models.Product) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.st.next("products")
	} else if p.ID > s.st.seq["products"] {
		s.st.seq["products"] = p.ID
	}
	s.st.products[p.ID] = &p
	cp := p
	return &cp
}

func (s *Storage) DeleteProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.products, id)
}
