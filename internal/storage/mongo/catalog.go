package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type catalogRepository struct {
	db *mongo.Database
}

func (r *catalogRepository) findProduct(ctx context.Context, filter bson.M) (*models.Product, error) {
	var doc productDoc
	if err := r.db.Collection(collProducts).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.model()
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.findProduct(ctx, bson.M{"id": id})
}

func (r *catalogRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findProduct(ctx, bson.M{"slug": slug})
}

func (r *catalogRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findProducts(ctx, bson.M{"id": bson.M{"$in": ids}})
}

func (r *catalogRepository) ListProducts(ctx context.Context, categoryID *int64) ([]*models.Product, error) {
	filter := bson.M{}
	if categoryID != nil {
		filter["categoryId"] = *categoryID
	}
	return r.findProducts(ctx, filter)
}

func (r *catalogRepository) findProducts(ctx context.Context, filter bson.M) ([]*models.Product, error) {
	cur, err := r.db.Collection(collProducts).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]*models.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	cur, err := r.db.Collection(collCategories).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	categories := make([]*models.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].model())
	}
	return categories, nil
}

func (r *catalogRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.findCategory(ctx, bson.M{"id": id})
}

func (r *catalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findCategory(ctx, bson.M{"slug": slug})
}

func (r *catalogRepository) findCategory(ctx context.Context, filter bson.M) (*models.Category, error) {
	var doc categoryDoc
	if err := r.db.Collection(collCategories).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return doc.model(), nil
}
