package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/linemk/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig создаёт временный файл с конфигурацией
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_test_*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoadByPath_Success(t *testing.T) {
	// Устанавливаем обязательные переменные окружения
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")

	path := writeConfig(t, `
env: "local"
http_server:
  address: "localhost:8080"
  timeout: "4s"
  idle_timeout: "60s"
storage:
  backend: "postgres"
database:
  host: "localhost"
  port: 5432
  user: "postgres"
  name: "shop"
jwt:
  token_ttl: 60
checkout:
  shipping_flat_rate: "5.50"
  cart_clear_retries: 5
migrations:
  path: "./migrations"
`)

	cfg := config.MustLoadByPath(path)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, config.BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, "mypassword", cfg.Database.Password)
	assert.Equal(t, "mysecret", cfg.JWT.Secret)
	assert.Equal(t, 60, cfg.JWT.TokenTTL)
	assert.Equal(t, 5, cfg.Checkout.CartClearRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Checkout.CartClearBackoff)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)

	shipping, err := cfg.Checkout.Shipping()
	require.NoError(t, err)
	assert.Equal(t, "5.5", shipping.String())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "mysecret")

	cfg, err := config.Load(writeConfig(t, "env: \"dev\"\n"))
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "4.99", cfg.Checkout.ShippingFlatRate)
	assert.Equal(t, 3, cfg.Checkout.CartClearRetries)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Empty(t, cfg.Redis.Address)
	assert.False(t, cfg.Mongo.Transactions)
}

func TestLoad_BackendFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "mysecret")
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := config.Load(writeConfig(t, "env: \"dev\"\n"))
	require.NoError(t, err)
	assert.Equal(t, config.BackendMongo, cfg.Storage.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "mysecret")

	_, err := config.Load(writeConfig(t, "storage:\n  backend: \"sqlite\"\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "storage:\n  backend: \"postgres\"\n"))
	assert.Error(t, err, "postgres without credentials")

	_, err = config.Load(writeConfig(t, "checkout:\n  shipping_flat_rate: \"-1\"\n"))
	assert.Error(t, err)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}
