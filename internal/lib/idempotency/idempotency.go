// Package idempotency защищает оформление заказа от повторной отправки с тем же Idempotency-Key
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const HeaderKey = "Idempotency-Key"

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key: ключ в Redis. Ключи разных пользователей не пересекаются
func (s *Store) Key(userID int64, clientKey string) string {
	return fmt.Sprintf("idem:checkout:%d:%s", userID, clientKey)
}

// Seen атомарно занимает ключ. true: ключ уже был занят раньше
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}

// Release освобождает ключ, чтобы неудачную попытку можно было повторить
func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
