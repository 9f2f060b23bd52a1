package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
)

type paymentsRepo struct{ *store }

const paymentCols = `id, transaction_id, user_id, account_id, amount, created_at`

// Create inserts the payment row. The unique index on transaction_id is the
// idempotency guarantee: a concurrent duplicate insert fails here atomically
// and surfaces as ErrDuplicateTransaction, same as a pre-check hit.
func (r *paymentsRepo) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO payments(transaction_id, user_id, account_id, amount)
		 VALUES($1, $2, $3, $4)
		 RETURNING `+paymentCols,
		p.TransactionID, p.UserID, p.AccountID, p.Amount,
	).Scan(&p.ID, &p.TransactionID, &p.UserID, &p.AccountID, &p.Amount, &p.CreatedAt)
	if isUniqueViolation(err) {
		return models.Payment{}, repo.ErrDuplicateTransaction
	}
	return p, err
}

func (r *paymentsRepo) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	return r.one(ctx, `SELECT `+paymentCols+` FROM payments WHERE id=$1`, id)
}

func (r *paymentsRepo) GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error) {
	return r.one(ctx, `SELECT `+paymentCols+` FROM payments WHERE transaction_id=$1`, transactionID)
}

func (r *paymentsRepo) one(ctx context.Context, sql string, arg any) (models.Payment, error) {
	rows, err := r.q(ctx).Query(ctx, sql, arg)
	if err != nil {
		return models.Payment{}, err
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Payment])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Payment{}, repo.ErrNotFound
	}
	return p, err
}

func (r *paymentsRepo) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Payment])
}
