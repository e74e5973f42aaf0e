package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/storefront/internal/service"
)

type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCartHandler обрабатывает GET /api/cart: корзина, пересчитанная по текущим ценам
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		cart, err := cartService.ListWithPricing(r.Context(), userID)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toCartResponse(cart))
	}
}

// AddToCartHandler обрабатывает POST /api/cart: 201 для новой строки, 200 при слиянии
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		var req AddToCartRequest
		if msg, ok := decodeAndValidate(r, &req); !ok {
			logger.Info("invalid request", slog.String("reason", msg))
			writeMessage(w, logger, http.StatusBadRequest, msg)
			return
		}

		item, err := cartService.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		// у слитой строки количество всегда больше добавленного
		status := http.StatusOK
		if item.Quantity == req.Quantity {
			status = http.StatusCreated
		}
		writeJSON(w, logger, status, item)
	}
}

// UpdateCartItemHandler обрабатывает PUT /api/cart/{id}. Количество меньше 1: ошибка, удаление через DELETE
func UpdateCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		itemID, ok := idParam(r, "id")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "invalid cart item id")
			return
		}

		var req UpdateCartItemRequest
		if msg, ok := decodeAndValidate(r, &req); !ok {
			writeMessage(w, logger, http.StatusBadRequest, msg)
			return
		}
		if req.Quantity < 1 {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid quantity")
			return
		}

		item, err := cartService.SetQuantity(r.Context(), userID, itemID, req.Quantity)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, item)
	}
}

// RemoveCartItemHandler обрабатывает DELETE /api/cart/{id}
func RemoveCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		itemID, ok := idParam(r, "id")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "invalid cart item id")
			return
		}

		if err := cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
			writeError(w, logger, err)
			return
		}
		writeMessage(w, logger, http.StatusOK, "Cart item removed")
	}
}

// ClearCartHandler обрабатывает DELETE /api/cart
func ClearCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := userIDFrom(w, r, logger)
		if !ok {
			return
		}

		if err := cartService.Clear(r.Context(), userID); err != nil {
			writeError(w, logger, err)
			return
		}
		writeMessage(w, logger, http.StatusOK, "Cart cleared")
	}
}
