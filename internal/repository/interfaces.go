package repository

import (
	"context"

	"github.com/payhook/payments-backend/internal/models"
	"github.com/shopspring/decimal"
)

type Users interface {
	Create(ctx context.Context, email, fullName, hashedPassword string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// ListWithAccounts eagerly loads every user's accounts.
	ListWithAccounts(ctx context.Context) ([]models.UserWithAccounts, error)
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type Accounts interface {
	Create(ctx context.Context, userID int64) (models.Account, error)
	GetByID(ctx context.Context, id int64) (models.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Account, error)
	// AdjustBalance applies balance = balance + delta as one atomic
	// check-then-write; ErrNegativeBalance when the result would be < 0.
	AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (models.Account, error)
}

type Payments interface {
	Create(ctx context.Context, p models.Payment) (models.Payment, error)
	GetByID(ctx context.Context, id int64) (models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Payment, error)
}

// TxRunner runs fn inside one database transaction. Repository calls made with
// the ctx passed to fn join that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
