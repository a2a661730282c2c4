package domain

import "errors"

var (
	ErrNotFound        = errors.New("expense_not_found")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidCategory = errors.New("invalid_category")
)
