package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

const productColumns = "id, name, slug, description, price, sale_price, is_on_sale, is_new, stock, image_url, category_id"

type catalogRepository struct {
	q Querier
}

// NewCatalogRepository создаёт репозиторий каталога.
func NewCatalogRepository(q Querier) storage.CatalogStorage {
	return &catalogRepository{q: q}
}

func scanProduct(row scanner) (*models.Product, error) {
	p := &models.Product{}
	var categoryID sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SalePrice,
		&p.IsOnSale, &p.IsNew, &p.Stock, &p.ImageURL, &categoryID); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		p.CategoryID = &id
	}
	return p, nil
}

func (r *catalogRepository) getProduct(ctx context.Context, where string, arg any) (*models.Product, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE "+where, arg)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.getProduct(ctx, "id = $1", id)
}

func (r *catalogRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.getProduct(ctx, "slug = $1", slug)
}

func (r *catalogRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryProducts(ctx, "SELECT "+productColumns+" FROM products WHERE id = ANY($1) ORDER BY id", pq.Array(ids))
}

func (r *catalogRepository) ListProducts(ctx context.Context, categoryID *int64) ([]*models.Product, error) {
	if categoryID != nil {
		return r.queryProducts(ctx, "SELECT "+productColumns+" FROM products WHERE category_id = $1 ORDER BY id", *categoryID)
	}
	return r.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
}

func (r *catalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT id, name, slug, image_url FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.getCategory(ctx, "id = $1", id)
}

func (r *catalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getCategory(ctx, "slug = $1", slug)
}

func (r *catalogRepository) getCategory(ctx context.Context, where string, arg any) (*models.Category, error) {
	row := r.q.QueryRowContext(ctx, "SELECT id, name, slug, image_url FROM categories WHERE "+where, arg)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{}
	var imageURL sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &imageURL); err != nil {
		return nil, err
	}
	c.ImageURL = imageURL.String
	return c, nil
}
