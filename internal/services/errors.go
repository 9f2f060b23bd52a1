package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("not enough privileges")
	ErrInvalidSignature   = errors.New("invalid signature")
)
