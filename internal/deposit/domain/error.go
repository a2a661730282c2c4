package domain

import "errors"

var (
	ErrNotFound      = errors.New("deposit_not_found")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrInvalidAmount = errors.New("invalid_amount")
)
