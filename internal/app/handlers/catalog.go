package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/storefront/internal/service"
)

func ListCategoriesHandler(log *slog.Logger, catalog service.CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListCategoriesHandler"))

		categories, err := catalog.ListCategories(r.Context())
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, categories)
	}
}

func GetCategoryHandler(log *slog.Logger, catalog service.CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetCategoryHandler"))

		category, err := catalog.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, category)
	}
}

// ListProductsHandler обрабатывает GET /api/products?categoryId=
func ListProductsHandler(log *slog.Logger, catalog service.CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListProductsHandler"))

		var categoryID *int64
		if raw := r.URL.Query().Get("categoryId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeMessage(w, logger, http.StatusBadRequest, "invalid categoryId")
				return
			}
			categoryID = &id
		}

		products, err := catalog.ListProducts(r.Context(), categoryID)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		resp := make([]ProductView, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductView(p))
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// GetProductHandler обрабатывает GET /api/products/{slug}, товар отдаётся вместе с категорией
func GetProductHandler(log *slog.Logger, catalog service.CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProductHandler"))

		details, err := catalog.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			writeError(w, logger, err)
			return
		}

		view := toProductView(details.Product)
		view.Category = details.Category
		writeJSON(w, logger, http.StatusOK, view)
	}
}
