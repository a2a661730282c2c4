// Package period models calendar-month accounting windows.
package period

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinYear is the earliest year the ledger accepts. Records before the
	// app existed are always a data-entry mistake.
	MinYear = 2000
	MaxYear = 2100
)

var ErrInvalidPeriod = errors.New("invalid_period")

// Month identifies a single calendar month of a single year.
type Month struct {
	Year  int
	Month time.Month
}

// New validates (year, month) and returns the period.
func New(year, month int) (Month, error) {
	if year < MinYear || year > MaxYear {
		return Month{}, ErrInvalidPeriod
	}
	if month < 1 || month > 12 {
		return Month{}, ErrInvalidPeriod
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// Of returns the period containing t.
func Of(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// Window returns the half-open UTC interval [start, end) covering the
// whole calendar month, regardless of when members joined.
func (m Month) Window() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month window.
func (m Month) Contains(t time.Time) bool {
	start, end := m.Window()
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
