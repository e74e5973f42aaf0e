package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker: хранилище, которое умеет сообщить о своём состоянии
type HealthChecker interface {
	Ping(ctx context.Context) error
	Backend() string
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// HealthHandler обрабатывает GET /api/health: 200 если хранилище отвечает, иначе 503
func HealthHandler(log *slog.Logger, checker HealthChecker, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.HealthHandler"))

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC(), Database: checker.Backend()}
		status := http.StatusOK
		if err := checker.Ping(ctx); err != nil {
			logger.Warn("storage ping failed", slog.Any("error", err))
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, logger, status, resp)
	}
}
