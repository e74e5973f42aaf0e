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

type cartRepository struct {
	db *mongo.Database
}

func (r *cartRepository) coll() *mongo.Collection {
	return r.db.Collection(collCartItems)
}

func (r *cartRepository) ListCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	cur, err := r.coll().Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	var docs []cartItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	items := make([]*models.CartItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].model())
	}
	return items, nil
}

// AddCartItem сначала пытается увеличить существующую строку, затем делает upsert
// с новым id. Гонку двух upsert разрешает уникальный индекс (userId, productId):
// проигравший получает duplicate key и повторяет $inc.
func (r *cartRepository) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	filter := bson.M{"userId": userID, "productId": productID}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	item, err := r.increment(ctx, filter, quantity, after)
	if err == nil || !errors.Is(err, mongo.ErrNoDocuments) {
		return item, err
	}

	id, err := nextSequence(ctx, r.db, collCartItems)
	if err != nil {
		return nil, err
	}

	var doc cartItemDoc
	update := bson.M{
		"$inc":         bson.M{"quantity": quantity},
		"$setOnInsert": bson.M{"id": id},
	}
	upsert := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	err = r.coll().FindOneAndUpdate(ctx, filter, update, upsert).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.increment(ctx, filter, quantity, after)
		}
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return doc.model(), nil
}

func (r *cartRepository) increment(ctx context.Context, filter bson.M, quantity int, opts *options.FindOneAndUpdateOptions) (*models.CartItem, error) {
	var doc cartItemDoc
	err := r.coll().FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"quantity": quantity}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to increment cart item: %w", err)
	}
	return doc.model(), nil
}

func (r *cartRepository) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	var doc cartItemDoc
	err := r.coll().FindOneAndUpdate(ctx,
		bson.M{"id": itemID, "userId": userID},
		bson.M{"$set": bson.M{"quantity": quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return doc.model(), nil
}

func (r *cartRepository) DeleteCartItem(ctx context.Context, userID, itemID int64) (bool, error) {
	res, err := r.coll().DeleteOne(ctx, bson.M{"id": itemID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID int64) (int64, error) {
	res, err := r.coll().DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.DeletedCount, nil
}
