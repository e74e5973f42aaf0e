package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/storefront/internal/config"
	"github.com/linemk/storefront/internal/lib/idempotency"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/linemk/storefront/internal/storage/memory"
	mongostorage "github.com/linemk/storefront/internal/storage/mongo"
	"github.com/linemk/storefront/internal/storage/postgres"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Storage storage.Storage
	Redis   *redis.Client // nil, если Redis не настроен

	Catalog  service.CatalogReader
	Cart     service.CartService
	Checkout service.OrderBuilder
	Orders   service.OrderReader
	Auth     service.AuthService
}

// NewApp создаёт новый экземпляр App: поднимает выбранное в конфиге хранилище и сервисы поверх него
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	store, err := openStorage(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	shipping, err := cfg.Checkout.Shipping()
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  log,
		Storage: store,
	}

	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		app.Redis = rdb
	}

	app.Catalog = service.NewCatalogReader(log, store.Catalog())
	app.Cart = service.NewCartService(log, store.Catalog(), store.Carts())
	app.Checkout = service.NewOrderBuilder(log, store, service.CheckoutOptions{
		Shipping:     shipping,
		ClearRetries: cfg.Checkout.CartClearRetries,
		ClearBackoff: cfg.Checkout.CartClearBackoff,
	})
	app.Orders = service.NewOrderReader(log, store.Catalog(), store.Orders())
	app.Auth = service.NewAuthService(log, store.Users(), cfg.JWT.Secret, time.Duration(cfg.JWT.TokenTTL)*time.Minute)

	log.Info("storage ready", slog.String("backend", store.Backend()), slog.Bool("idempotency", app.Redis != nil))
	return app, nil
}

// Idempotency возвращает хранилище ключей или nil, если Redis не настроен
func (a *App) Idempotency() *idempotency.Store {
	if a.Redis == nil {
		return nil
	}
	return idempotency.NewStore(a.Redis, a.Config.Redis.IdempotencyTTL)
}

func (a *App) Close(ctx context.Context) error {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis", slog.Any("error", err))
		}
	}
	return a.Storage.Close(ctx)
}

func openStorage(ctx context.Context, log *slog.Logger, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store := memory.New()
		store.SeedDemoCatalog()
		return store, nil

	case config.BackendPostgres:
		// реализуем подключение к БД через DSN
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return postgres.New(log, db), nil

	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		store := mongostorage.New(log, client.Database(cfg.Mongo.Database), cfg.Mongo.Transactions)
		if err := store.Ping(connectCtx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		if err := store.EnsureIndexes(connectCtx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
