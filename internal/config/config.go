package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Checkout   CheckoutConfig   `yaml:"checkout"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// StorageConfig выбирает хранилище при старте: memory, postgres или mongo
type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// MongoConfig: документное хранилище. Без транзакций заказ откатывается компенсирующим удалением
type MongoConfig struct {
	URI            string        `yaml:"-" env:"MONGO_URI"`
	Database       string        `yaml:"database" env-default:"storefront"`
	Transactions   bool          `yaml:"transactions" env-default:"false"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env-default:"10s"`
}

// RedisConfig: хранилище ключей идемпотентности. Пустой адрес отключает проверку
type RedisConfig struct {
	Address        string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password       string        `yaml:"-" env:"REDIS_PASSWORD"`
	DB             int           `yaml:"db" env-default:"0"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env-default:"24h"`
}

// JWTConfig настройка jwt
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"` // минуты
}

type CheckoutConfig struct {
	ShippingFlatRate string        `yaml:"shipping_flat_rate" env-default:"4.99"`
	CartClearRetries int           `yaml:"cart_clear_retries" env-default:"3"`
	CartClearBackoff time.Duration `yaml:"cart_clear_backoff" env-default:"100ms"`
}

// Shipping возвращает стоимость доставки
func (c CheckoutConfig) Shipping() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.ShippingFlatRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("shipping_flat_rate: %w", err)
	}
	if rate.IsNegative() {
		return decimal.Zero, errors.New("shipping_flat_rate must not be negative")
	}
	return rate, nil
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("can't load config file %s: %v", configPath, err)
	}

	return cfg
}

// Load читает файл, применяет переменные окружения и проверяет настройки выбранного хранилища
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.User == "" || c.Database.Name == "" || c.Database.Password == "" {
			return errors.New("postgres backend requires database.user, database.name and DB_PASSWORD")
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo backend requires MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if _, err := c.Checkout.Shipping(); err != nil {
		return err
	}
	if c.Checkout.CartClearRetries < 1 {
		return errors.New("cart_clear_retries must be at least 1")
	}
	return nil
}
