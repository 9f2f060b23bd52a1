package models

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FullName       string    `json:"full_name" db:"full_name"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	IsAdmin        bool      `json:"is_admin" db:"is_admin"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if strings.TrimSpace(u.FullName) == "" {
		return errors.New("full name required")
	}
	return nil
}

// UserWithAccounts is the admin listing shape: the user plus its accounts,
// eagerly loaded.
type UserWithAccounts struct {
	User
	Accounts []Account `json:"accounts"`
}

// UserPatch is a partial update. A nil field means "leave unchanged";
// presence is tracked by the pointer, not by map keys.
type UserPatch struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
}
