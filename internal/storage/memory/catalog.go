package memory

import (
	"context"
	"sort"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type catalogRepository struct {
	v view
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var out *models.Product
	err := r.v.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return storage.ErrProductNotFound
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

func (r *catalogRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var out *models.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.Slug == slug {
				cp := *p
				out = &cp
				return nil
			}
		}
		return storage.ErrProductNotFound
	})
	return out, err
}

func (r *catalogRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	var out []*models.Product
	err := r.v.do(func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				cp := *p
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *catalogRepository) ListProducts(ctx context.Context, categoryID *int64) ([]*models.Product, error) {
	var out []*models.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
				continue
			}
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var out []*models.Category
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *catalogRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var out *models.Category
	err := r.v.do(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return storage.ErrCategoryNotFound
		}
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *catalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var out *models.Category
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			if c.Slug == slug {
				cp := *c
				out = &cp
				return nil
			}
		}
		return storage.ErrCategoryNotFound
	})
	return out, err
}
