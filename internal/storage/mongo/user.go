package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	db *mongo.Database
}

func (r *userRepository) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.db.Collection(collUsers).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.model(), nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, bson.M{"id": id})
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"username": username})
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

// CreateUser полагается на уникальные индексы username и email
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := nextSequence(ctx, r.db, collUsers)
	if err != nil {
		return nil, err
	}
	doc := userDoc{
		ID:       id,
		Username: user.Username,
		Email:    user.Email,
		Password: user.PassHash,
		FullName: user.FullName,
		Address:  user.Address,
	}
	if _, err := r.db.Collection(collUsers).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, storage.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	created := *user
	created.ID = id
	return &created, nil
}
