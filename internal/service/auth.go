package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	security "github.com/linemk/storefront/internal/jwt-new"
	"github.com/linemk/storefront/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Address  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		log:       log,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Register создаёт пользователя. Пароль хэшируется через bcrypt (соль добавляется автоматически).
// Занятые username или email дают Conflict
func (a *authService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	const op = "service.AuthService.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", in.Username),
	)
	logger.Info("registering user")

	if _, err := a.userRepo.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, "", newError(KindConflict, "Username already exists", nil)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, "", storageFailure(op, err)
	}
	if _, err := a.userRepo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, "", newError(KindConflict, "Email already exists", nil)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, "", storageFailure(op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, "", storageFailure(op, fmt.Errorf("hash password: %w", err))
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Username: in.Username,
		Email:    in.Email,
		PassHash: passHash,
		FullName: in.FullName,
		Address:  in.Address,
	})
	if err != nil {
		// гонка двух регистраций ловится уникальным индексом
		if errors.Is(err, storage.ErrUserExists) {
			return nil, "", newError(KindConflict, "User already exists", err)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, "", storageFailure(op, err)
	}

	token, err := a.issue(logger, user)
	if err != nil {
		return nil, "", storageFailure(op, err)
	}
	logger.Info("user registered", slog.Int64("userID", user.ID))
	return user, token, nil
}

// Login проверяет пароль и выдаёт JWT. Неизвестный пользователь и неверный пароль неразличимы для клиента
func (a *authService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Info("user not found")
			return nil, "", newError(KindUnauthorized, "Invalid credentials", nil)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, "", storageFailure(op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, "", newError(KindUnauthorized, "Invalid credentials", nil)
	}

	token, err := a.issue(logger, user)
	if err != nil {
		return nil, "", storageFailure(op, err)
	}
	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return user, token, nil
}

func (a *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	const op = "service.AuthService.Me"

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, newError(KindNotFound, "User not found", err)
		}
		a.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, storageFailure(op, err)
	}
	return user, nil
}

func (a *authService) issue(logger *slog.Logger, user *models.User) (string, error) {
	token, err := security.NewToken(user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
