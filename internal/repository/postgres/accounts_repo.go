package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/shopspring/decimal"
)

type accountsRepo struct{ *store }

func (r *accountsRepo) Create(ctx context.Context, userID int64) (models.Account, error) {
	var a models.Account
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO accounts(user_id, balance)
		 VALUES($1, 0)
		 RETURNING id, user_id, balance`,
		userID,
	).Scan(&a.ID, &a.UserID, &a.Balance)
	return a, err
}

func (r *accountsRepo) GetByID(ctx context.Context, id int64) (models.Account, error) {
	var a models.Account
	err := r.q(ctx).QueryRow(ctx,
		`SELECT id, user_id, balance FROM accounts WHERE id=$1`, id,
	).Scan(&a.ID, &a.UserID, &a.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repo.ErrNotFound
	}
	return a, err
}

func (r *accountsRepo) ListByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT id, user_id, balance FROM accounts WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
}

// AdjustBalance is the single serialization point for balance writes: the
// check and the write are one statement, so concurrent adjustments to the
// same account cannot interleave between them.
func (r *accountsRepo) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (models.Account, error) {
	var a models.Account
	err := r.q(ctx).QueryRow(ctx,
		`UPDATE accounts
		    SET balance = balance + $2
		  WHERE id = $1 AND balance + $2 >= 0
		  RETURNING id, user_id, balance`,
		accountID, delta,
	).Scan(&a.ID, &a.UserID, &a.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the account is missing or the guard rejected the write.
		if _, getErr := r.GetByID(ctx, accountID); getErr != nil {
			return models.Account{}, getErr
		}
		return models.Account{}, repo.ErrNegativeBalance
	}
	return a, err
}
