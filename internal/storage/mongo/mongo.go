// Package mongo: реализация хранилища поверх MongoDB. Числовые id выдаются
// атомарным счётчиком в коллекции counters.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collCounters   = "counters"
	collCategories = "categories"
	collProducts   = "products"
	collCartItems  = "cartItems"
	collOrders     = "orders"
	collOrderItems = "orderItems"
	collUsers      = "users"
)

type Storage struct {
	log          *slog.Logger
	db           *mongo.Database
	transactions bool
}

var _ storage.Storage = (*Storage)(nil)

// New создаёт хранилище. transactions включает многодокументные транзакции (нужен replica set),
// без них WithinTx откатывает созданные заказы компенсирующим удалением.
func New(log *slog.Logger, db *mongo.Database, transactions bool) *Storage {
	return &Storage{log: log, db: db, transactions: transactions}
}

// NextSequence атомарно увеличивает счётчик name и возвращает новое значение.
func (s *Storage) NextSequence(ctx context.Context, name string) (int64, error) {
	return nextSequence(ctx, s.db, name)
}

func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// EnsureIndexes создаёт уникальные индексы, на которые опираются upsert корзины и регистрация.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		collCartItems: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		collOrders:     {{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "userId", Value: 1}}}},
		collOrderItems: {{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "orderId", Value: 1}}}},
		collProducts:   {{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		collCategories: {{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		collUsers: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Storage) Catalog() storage.CatalogStorage { return &catalogRepository{db: s.db} }
func (s *Storage) Carts() storage.CartStorage      { return &cartRepository{db: s.db} }
func (s *Storage) Orders() storage.OrderStorage    { return &orderRepository{db: s.db} }
func (s *Storage) Users() storage.UserStorage      { return &userRepository{db: s.db} }

// journal запоминает заказы, созданные внутри WithinTx без транзакции
type journal struct {
	orderIDs []int64
}

type txRepos struct {
	db      *mongo.Database
	journal *journal
}

func (t *txRepos) Catalog() storage.CatalogStorage { return &catalogRepository{db: t.db} }
func (t *txRepos) Carts() storage.CartStorage      { return &cartRepository{db: t.db} }
func (t *txRepos) Orders() storage.OrderStorage {
	return &orderRepository{db: t.db, journal: t.journal}
}

func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	const op = "storage.mongo.WithinTx"

	if s.transactions {
		sess, err := s.db.Client().StartSession()
		if err != nil {
			return fmt.Errorf("%s: failed to start session: %w", op, err)
		}
		defer sess.EndSession(ctx)

		_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc, &txRepos{db: s.db})
		})
		return err
	}

	j := &journal{}
	if err := fn(ctx, &txRepos{db: s.db, journal: j}); err != nil {
		if cErr := s.compensate(context.WithoutCancel(ctx), j); cErr != nil {
			s.log.Error("failed to compensate partial order", slog.String("op", op),
				slog.Any("orderIDs", j.orderIDs), slog.Any("error", cErr))
		}
		return err
	}
	return nil
}

// compensate удаляет заголовки и позиции заказов, записанные до ошибки
func (s *Storage) compensate(ctx context.Context, j *journal) error {
	if len(j.orderIDs) == 0 {
		return nil
	}
	if _, err := s.db.Collection(collOrderItems).DeleteMany(ctx, bson.M{"orderId": bson.M{"$in": j.orderIDs}}); err != nil {
		return err
	}
	_, err := s.db.Collection(collOrders).DeleteMany(ctx, bson.M{"id": bson.M{"$in": j.orderIDs}})
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *Storage) Backend() string { return storage.BackendMongo }

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
