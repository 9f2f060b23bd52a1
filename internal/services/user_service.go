package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/payhook/payments-backend/internal/auth"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
)

type UserService struct {
	users repo.Users
	log   *slog.Logger
}

func NewUserService(users repo.Users, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Create(ctx context.Context, email, fullName, password string) (models.User, error) {
	u := models.User{Email: strings.TrimSpace(email), FullName: strings.TrimSpace(fullName)}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.users.Create(ctx, u.Email, u.FullName, hash)
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike; callers cannot tell the two apart.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.log.Debug("auth failed", "email", email)
		return models.User{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, u.HashedPassword) {
		s.log.Debug("auth failed", "email", email)
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Update applies a partial update; only fields present in the patch change.
// A supplied password is re-hashed before it reaches storage.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if patch.Email != nil {
		u.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.FullName != nil {
		u.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return models.User{}, err
		}
		u.HashedPassword = hash
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.users.Delete(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]models.UserWithAccounts, error) {
	return s.users.ListWithAccounts(ctx)
}

// RequireAdmin gates administrative operations.
func (s *UserService) RequireAdmin(u models.User) error {
	if !u.IsAdmin {
		return ErrForbidden
	}
	return nil
}
