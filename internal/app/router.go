package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/storefront/internal/app/handlers"
	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/storefront/internal/lib/idempotency"
	"github.com/linemk/storefront/internal/lib/logger/handlers/urllog"
)

// Router собирает HTTP-маршруты под префиксом /api
func (a *App) Router() http.Handler {
	log := a.Logger

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler(log, a.Storage, a.Config.HTTPServer.Timeout))

		// эндпоинты для аутентификации
		r.Post("/auth/register", handlers.RegisterHandler(log, a.Auth))
		r.Post("/auth/login", handlers.LoginHandler(log, a.Auth))

		// каталог доступен без токена
		r.Get("/categories", handlers.ListCategoriesHandler(log, a.Catalog))
		r.Get("/categories/{slug}", handlers.GetCategoryHandler(log, a.Catalog))
		r.Get("/products", handlers.ListProductsHandler(log, a.Catalog))
		r.Get("/products/{slug}", handlers.GetProductHandler(log, a.Catalog))

		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.NewJWTMiddleware(a.Config.JWT.Secret))

			r.Get("/users/me", handlers.MeHandler(log, a.Auth))

			r.Get("/cart", handlers.GetCartHandler(log, a.Cart))
			r.Post("/cart", handlers.AddToCartHandler(log, a.Cart))
			r.Delete("/cart", handlers.ClearCartHandler(log, a.Cart))
			r.Put("/cart/{id}", handlers.UpdateCartItemHandler(log, a.Cart))
			r.Delete("/cart/{id}", handlers.RemoveCartItemHandler(log, a.Cart))

			r.Get("/orders", handlers.ListOrdersHandler(log, a.Orders))
			r.Get("/orders/{id}", handlers.GetOrderHandler(log, a.Orders))

			placeOrder := http.Handler(handlers.PlaceOrderHandler(log, a.Checkout))
			if store := a.Idempotency(); store != nil {
				placeOrder = idempotency.Middleware(log, store)(placeOrder)
			}
			r.Method(http.MethodPost, "/orders", placeOrder)
		})
	})

	return router
}
