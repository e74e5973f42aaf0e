package memory

import (
	"context"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

type userRepository struct {
	v view
}

func (r *userRepository) find(match func(u *models.User) bool) (*models.User, error) {
	var out *models.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				cp := *u
				out = &cp
				return nil
			}
		}
		return storage.ErrUserNotFound
	})
	return out, err
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var out *models.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username || u.Email == user.Email {
				return storage.ErrUserExists
			}
		}
		u := *user
		u.ID = st.next("users")
		st.users[u.ID] = &u
		cp := u
		out = &cp
		return nil
	})
	return out, err
}
