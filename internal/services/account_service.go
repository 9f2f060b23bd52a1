package services

import (
	"context"
	"log/slog"

	"github.com/payhook/payments-backend/internal/cache"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accounts repo.Accounts
	cache    *cache.Service
	log      *slog.Logger
}

func NewAccountService(accounts repo.Accounts, c *cache.Service, log *slog.Logger) *AccountService {
	return &AccountService{accounts: accounts, cache: c, log: log}
}

func (s *AccountService) Create(ctx context.Context, userID int64) (models.Account, error) {
	a, err := s.accounts.Create(ctx, userID)
	if err != nil {
		return models.Account{}, err
	}
	s.cache.Invalidate(ctx, cache.AccountCreated, userID)
	return a, nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// ListByUser is a read-through cache: serve the cached list when present,
// otherwise hit storage and repopulate.
func (s *AccountService) ListByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	key := cache.UserAccountsKey(userID)

	var cached []models.Account
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	s.cache.Set(ctx, key, accounts)
	return accounts, nil
}

// AdjustBalance applies delta atomically; the result never goes below zero.
// The owning user's cached account list is invalidated after the write.
func (s *AccountService) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (models.Account, error) {
	a, err := s.accounts.AdjustBalance(ctx, accountID, delta)
	if err != nil {
		return models.Account{}, err
	}
	s.cache.Invalidate(ctx, cache.BalanceAdjusted, a.UserID)
	return a, nil
}

func (s *AccountService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance.Decimal, nil
}
