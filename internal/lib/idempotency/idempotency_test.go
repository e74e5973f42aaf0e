package idempotency_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/storefront/internal/lib/idempotency"
	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ttl = time.Hour

func newRequest(userID int64, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	if key != "" {
		req.Header.Set(idempotency.HeaderKey, key)
	}
	return req.WithContext(jwtmiddleware.WithUserID(req.Context(), userID))
}

func handlerWithStatus(status int, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(status)
	})
}

func TestStore_Seen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewStore(db, ttl)
	key := store.Key(1, "abc")
	assert.Equal(t, "idem:checkout:1:abc", key)

	mock.ExpectSetNX(key, "1", ttl).SetVal(true)
	mock.ExpectSetNX(key, "1", ttl).SetVal(false)

	seen, err := store.Seen(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, seen)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddleware_FirstRequestPasses(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewStore(db, ttl)
	mock.ExpectSetNX("idem:checkout:1:abc", "1", ttl).SetVal(true)

	calls := 0
	h := idempotency.Middleware(logger.Discard(), store)(handlerWithStatus(http.StatusCreated, &calls))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newRequest(1, "abc"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddleware_DuplicateRejected(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewStore(db, ttl)
	mock.ExpectSetNX("idem:checkout:1:abc", "1", ttl).SetVal(false)

	calls := 0
	h := idempotency.Middleware(logger.Discard(), store)(handlerWithStatus(http.StatusCreated, &calls))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newRequest(1, "abc"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"message":"Duplicate request"}`, rr.Body.String())
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddleware_FailedAttemptReleasesKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewStore(db, ttl)
	mock.ExpectSetNX("idem:checkout:1:abc", "1", ttl).SetVal(true)
	mock.ExpectDel("idem:checkout:1:abc").SetVal(1)

	calls := 0
	h := idempotency.Middleware(logger.Discard(), store)(handlerWithStatus(http.StatusBadRequest, &calls))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newRequest(1, "abc"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddleware_PassThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewStore(db, ttl)
	mock.ExpectSetNX("idem:checkout:1:abc", "1", ttl).SetErr(errors.New("connection refused"))

	calls := 0
	h := idempotency.Middleware(logger.Discard(), store)(handlerWithStatus(http.StatusCreated, &calls))

	// без заголовка Redis не трогается
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newRequest(1, ""))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, newRequest(1, "abc"))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
