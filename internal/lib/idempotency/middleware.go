package idempotency

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
)

type Guard interface {
	Key(userID int64, clientKey string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Middleware отклоняет с 409 повтор запроса с тем же ключом, пока первый выполняется или уже успешен.
// Запрос без заголовка пропускается как есть. Если Redis недоступен, запрос тоже пропускается
func Middleware(log *slog.Logger, guard Guard) func(http.Handler) http.Handler {
	const op = "idempotency.Middleware"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(HeaderKey)
			userID, ok := jwtmiddleware.FromContext(r.Context())
			if clientKey == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			logger := log.With(slog.String("op", op), slog.Int64("userID", userID))
			key := guard.Key(userID, clientKey)

			seen, err := guard.Seen(r.Context(), key)
			if err != nil {
				logger.Error("idempotency store unavailable", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				logger.Warn("duplicate request rejected", slog.String("key", clientKey))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "Duplicate request"})
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= http.StatusBadRequest {
				if err := guard.Release(context.WithoutCancel(r.Context()), key); err != nil {
					logger.Error("failed to release idempotency key", slog.Any("error", err))
				}
			}
		})
	}
}
