package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
)

type usersRepo struct{ *store }

const userCols = `id, email, full_name, hashed_password, is_admin, created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, email, fullName, hashedPassword string) (models.User, error) {
	var u models.User
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO users(email, full_name, hashed_password)
		 VALUES($1, $2, $3)
		 RETURNING `+userCols,
		email, fullName, hashedPassword,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return models.User{}, repo.ErrEmailTaken
	}
	return u, err
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email)
}

func (r *usersRepo) one(ctx context.Context, sql string, arg any) (models.User, error) {
	rows, err := r.q(ctx).Query(ctx, sql, arg)
	if err != nil {
		return models.User{}, err
	}
	u, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, repo.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) ListWithAccounts(ctx context.Context) ([]models.UserWithAccounts, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, err
	}

	accRows, err := r.q(ctx).Query(ctx,
		`SELECT id, user_id, balance FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	accounts, err := pgx.CollectRows(accRows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]models.Account, len(users))
	for _, a := range accounts {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	out := make([]models.UserWithAccounts, 0, len(users))
	for _, u := range users {
		accs := byUser[u.ID]
		if accs == nil {
			accs = []models.Account{}
		}
		out = append(out, models.UserWithAccounts{User: u, Accounts: accs})
	}
	return out, nil
}

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE users
		    SET email=$2, full_name=$3, hashed_password=$4, is_admin=$5, updated_at=now()
		  WHERE id=$1`,
		u.ID, u.Email, u.FullName, u.HashedPassword, u.IsAdmin,
	)
	if isUniqueViolation(err) {
		return repo.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
