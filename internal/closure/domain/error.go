package domain

import "errors"

var (
	// ErrPeriodClosed rejects any mutation dated inside a closed month.
	// It must surface to the caller; a silent no-op would corrupt the
	// settled history.
	ErrPeriodClosed = errors.New("period_closed")
)
