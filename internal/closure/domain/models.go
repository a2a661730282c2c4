// Package domain contains core types for the month-close service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/period"
)

// MonthClosure marks one (house, year, month) as settled. Its existence is
// the CLOSED state; there is no row for OPEN months and no reverse
// transition, so the table is append-only.
type MonthClosure struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	HouseID   snowflake.ID `gorm:"not null;uniqueIndex:ux_month_closures_period,priority:1" json:"house_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_month_closures_period,priority:2" json:"year"`
	Month     int          `gorm:"not null;uniqueIndex:ux_month_closures_period,priority:3" json:"month"`
	ClosedBy  snowflake.ID `gorm:"column:closed_by;not null" json:"closed_by"`
	ClosedAt  time.Time    `gorm:"column:closed_at;not null" json:"closed_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (MonthClosure) TableName() string { return "month_closures" }

// Period returns the month the closure covers.
func (c MonthClosure) Period() period.Month {
	return period.Month{Year: c.Year, Month: time.Month(c.Month)}
}

// State of a house month.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Status is the tagged month state: Open carries nothing, Closed carries
// who closed the month and when.
type Status struct {
	State    State        `json:"state"`
	ClosedBy snowflake.ID `json:"closed_by,omitempty"`
	ClosedAt *time.Time   `json:"closed_at,omitempty"`
}

// Open reports whether the month still accepts writes.
func (s Status) Open() bool { return s.State == StateOpen }

// StatusOf derives the tagged status from an optional closure row.
func StatusOf(closure *MonthClosure) Status {
	if closure == nil {
		return Status{State: StateOpen}
	}
	closedAt := closure.ClosedAt
	return Status{
		State:    StateClosed,
		ClosedBy: closure.ClosedBy,
		ClosedAt: &closedAt,
	}
}
