package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

const userColumns = "id, username, email, pass_hash, full_name, address, is_admin"

type userRepository struct {
	q Querier
}

func NewUserRepository(q Querier) storage.UserStorage {
	return &userRepository{q: q}
}

func (r *userRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var fullName, address sql.NullString
	row := r.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PassHash, &fullName, &address, &user.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	user.FullName = fullName.String
	user.Address = address.String
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, "username = $1", username)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email = $1", email)
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.q.QueryRowContext(ctx,
		"INSERT INTO users (username, email, pass_hash, full_name, address) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		user.Username, user.Email, user.PassHash, user.FullName, user.Address,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	created := *user
	created.ID = id
	return &created, nil
}
