package postgres

import (
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users    repo.Users
	Accounts repo.Accounts
	Payments repo.Payments
	Tx       repo.TxRunner
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	s := &store{pool: pool}
	return Repositories{
		Users:    &usersRepo{s},
		Accounts: &accountsRepo{s},
		Payments: &paymentsRepo{s},
		Tx:       s,
	}
}
