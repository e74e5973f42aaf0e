package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

// ProductDetails: товар вместе с категорией (категория может отсутствовать)
type ProductDetails struct {
	*models.Product
	Category *models.Category `json:"category"`
}

type CatalogReader interface {
	GetProduct(ctx context.Context, id int64) (*ProductDetails, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDetails, error)
	ListProducts(ctx context.Context, categoryID *int64) ([]*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type catalogReader struct {
	log     *slog.Logger
	catalog storage.CatalogStorage
}

func NewCatalogReader(log *slog.Logger, catalog storage.CatalogStorage) CatalogReader {
	return &catalogReader{log: log, catalog: catalog}
}

func (s *catalogReader) GetProduct(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "service.CatalogReader.GetProduct"

	product, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, s.productError(op, err)
	}
	return s.withCategory(ctx, op, product)
}

func (s *catalogReader) GetProductBySlug(ctx context.Context, slug string) (*ProductDetails, error) {
	const op = "service.CatalogReader.GetProductBySlug"

	product, err := s.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, s.productError(op, err)
	}
	return s.withCategory(ctx, op, product)
}

func (s *catalogReader) ListProducts(ctx context.Context, categoryID *int64) ([]*models.Product, error) {
	const op = "service.CatalogReader.ListProducts"

	products, err := s.catalog.ListProducts(ctx, categoryID)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return products, nil
}

func (s *catalogReader) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "service.CatalogReader.ListCategories"

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return categories, nil
}

func (s *catalogReader) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	const op = "service.CatalogReader.GetCategoryBySlug"

	category, err := s.catalog.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			return nil, newError(KindNotFound, "Category not found", err)
		}
		s.log.Error("failed to get category", slog.String("op", op), slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return category, nil
}

func (s *catalogReader) productError(op string, err error) error {
	if errors.Is(err, storage.ErrProductNotFound) {
		return newError(KindNotFound, "Product not found", err)
	}
	s.log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
	return storageFailure(op, err)
}

// категория, удалённая после создания товара, не делает товар недоступным
func (s *catalogReader) withCategory(ctx context.Context, op string, product *models.Product) (*ProductDetails, error) {
	details := &ProductDetails{Product: product}
	if product.CategoryID == nil {
		return details, nil
	}
	category, err := s.catalog.GetCategoryByID(ctx, *product.CategoryID)
	switch {
	case err == nil:
		details.Category = category
	case errors.Is(err, storage.ErrCategoryNotFound):
	default:
		s.log.Error("failed to get category", slog.String("op", op), slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return details, nil
}
