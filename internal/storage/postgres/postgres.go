// Package postgres: реализация хранилища поверх PostgreSQL (database/sql + lib/pq)
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/linemk/storefront/internal/storage"
)

// код нарушения уникальности в PostgreSQL
const uniqueViolation = "23505"

// Querier: общее подмножество *sql.DB и *sql.Tx, с которым работают репозитории
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner: общее для *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

type Storage struct {
	log *slog.Logger
	db  *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

func New(log *slog.Logger, db *sql.DB) *Storage {
	return &Storage{log: log, db: db}
}

func (s *Storage) Catalog() storage.CatalogStorage { return NewCatalogRepository(s.db) }
func (s *Storage) Carts() storage.CartStorage      { return NewCartRepository(s.db) }
func (s *Storage) Orders() storage.OrderStorage    { return NewOrderRepository(s.db) }
func (s *Storage) Users() storage.UserStorage      { return NewUserRepository(s.db) }

// txRepos: репозитории поверх открытой транзакции
type txRepos struct {
	tx *sql.Tx
}

func (t *txRepos) Catalog() storage.CatalogStorage { return NewCatalogRepository(t.tx) }

// внутри транзакции строки корзины блокируются на чтение (SELECT ... FOR UPDATE)
func (t *txRepos) Carts() storage.CartStorage   { return &cartRepository{q: t.tx, lockRows: true} }
func (t *txRepos) Orders() storage.OrderStorage { return NewOrderRepository(t.tx) }

// WithinTx открывает транзакцию, выполняет fn и коммитит её.
// Если fn вернула ошибку, транзакция откатывается
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	const op = "storage.postgres.WithinTx"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if err := fn(ctx, &txRepos{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("transaction rollback failed", slog.String("op", op), slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Backend() string { return storage.BackendPostgres }

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
