package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CloseMonthRequest struct {
	Year  int
	Month int
}

// CloseOutcome distinguishes a fresh close from an idempotent retry.
type CloseOutcome string

const (
	CloseOutcomeClosed        CloseOutcome = "closed"
	CloseOutcomeAlreadyClosed CloseOutcome = "already_closed"
)

type CloseResult struct {
	Outcome CloseOutcome `json:"outcome"`
	Closure MonthClosure `json:"closure"`
}

type Service interface {
	// CloseMonth transitions (house, year, month) from OPEN to CLOSED.
	// Closing an already-closed month reports AlreadyClosed and leaves
	// the original closure untouched; there is no way back to OPEN.
	CloseMonth(ctx context.Context, req CloseMonthRequest) (CloseResult, error)
	MonthStatus(ctx context.Context, year, month int) (Status, error)
	IsMonthClosed(ctx context.Context, houseID snowflake.ID, year, month int) (bool, error)
}

// Gate is consulted by every meal, expense and deposit mutation before it
// writes. Check must run inside the same transaction as the write so a
// concurrent close either happens after the write commits or makes it fail.
type Gate interface {
	Check(ctx context.Context, tx *gorm.DB, houseID snowflake.ID, date time.Time) error
}
