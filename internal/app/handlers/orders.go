package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/storefront/internal/service"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest: total от клиента принимается, но в заказ не попадает
type PlaceOrderRequest struct {
	Address string           `json:"address" validate:"required"`
	Total   *decimal.Decimal `json:"total"`
}

type PlaceOrderResponse struct {
	Order   OrderView `json:"order"`
	Message string    `json:"message"`
}

// PlaceOrderHandler обрабатывает POST /api/orders
func PlaceOrderHandler(log *slog.Logger, builder service.OrderBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PlaceOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		var req PlaceOrderRequest
		if msg, ok := decodeAndValidate(r, &req); !ok {
			writeMessage(w, logger, http.StatusBadRequest, msg)
			return
		}

		order, err := builder.PlaceOrder(r.Context(), userID, req.Address, req.Total)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, PlaceOrderResponse{
			Order:   toOrderView(order),
			Message: "Order created successfully",
		})
	}
}

// ListOrdersHandler обрабатывает GET /api/orders
func ListOrdersHandler(log *slog.Logger, reader service.OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		orders, err := reader.ListOrders(r.Context(), userID)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		resp := make([]OrderView, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, toOrderDetailsView(o))
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// GetOrderHandler обрабатывает GET /api/orders/{id}
func GetOrderHandler(log *slog.Logger, reader service.OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		orderID, ok := idParam(r, "id")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := reader.GetOrder(r.Context(), orderID, userID)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderDetailsView(order))
	}
}
