package repository

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrNegativeBalance      = errors.New("account balance cannot be negative")
)
