package domain

import "errors"

var (
	ErrNotFound     = errors.New("meal_record_not_found")
	ErrInvalidDate  = errors.New("invalid_date")
	ErrInvalidCount = errors.New("invalid_count")
)
