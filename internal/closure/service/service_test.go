package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	"github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/closure/repository"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   *clock.FakeClock
	svc     domain.Service
	gate    domain.Gate
	houseID snowflake.ID
	actorID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&housedomain.House{}, &housedomain.Member{}, &domain.MonthClosure{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, time.April, 2, 12, 0, 0, 0, time.UTC))

	houseID := node.Generate()
	now := fc.Now()
	require.NoError(t, db.Create(&housedomain.House{
		ID:        houseID,
		Name:      "Hostel A",
		Slug:      "hostel-a",
		JoinCode:  "AAAA1111",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fc,
		Repo:  repository.Provide(),
	})

	return &fixture{
		db:      db,
		node:    node,
		clock:   fc,
		svc:     svc,
		gate:    NewGate(svc),
		houseID: houseID,
		actorID: node.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	ctx := housecontext.WithHouseID(context.Background(), f.houseID)
	return housecontext.WithActor(ctx, housecontext.Actor{
		UserID:   f.node.Generate(),
		MemberID: f.actorID,
		Role:     housedomain.RoleManager,
	})
}

func TestCloseMonth(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Equal(t, domain.CloseOutcomeClosed, result.Outcome)
	require.Equal(t, f.actorID, result.Closure.ClosedBy)
	require.Equal(t, f.clock.Now(), result.Closure.ClosedAt)

	status, err := f.svc.MonthStatus(f.ctx(), 2026, 3)
	require.NoError(t, err)
	require.Equal(t, domain.StateClosed, status.State)
	require.Equal(t, f.actorID, status.ClosedBy)
	require.NotNil(t, status.ClosedAt)
}

func TestCloseMonthIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Equal(t, domain.CloseOutcomeClosed, first.Outcome)

	f.clock.Advance(48 * time.Hour)

	second, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Equal(t, domain.CloseOutcomeAlreadyClosed, second.Outcome)
	// The original closure survives a retry untouched.
	require.Equal(t, first.Closure.ID, second.Closure.ID)
	require.True(t, first.Closure.ClosedAt.Equal(second.Closure.ClosedAt))
	require.Equal(t, first.Closure.ClosedBy, second.Closure.ClosedBy)
}

func TestCloseMonthUnknownHouse(t *testing.T) {
	f := newFixture(t)
	ctx := housecontext.WithHouseID(context.Background(), f.node.Generate())
	ctx = housecontext.WithActor(ctx, housecontext.Actor{
		UserID:   f.node.Generate(),
		MemberID: f.actorID,
		Role:     housedomain.RoleManager,
	})

	_, err := f.svc.CloseMonth(ctx, domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.True(t, errors.Is(err, housedomain.ErrNotFound), "got %v", err)
}

func TestCloseMonthInvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 0})
	require.Error(t, err)

	_, err = f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 1970, Month: 6})
	require.Error(t, err)
}

func TestCloseMonthRequiresActor(t *testing.T) {
	f := newFixture(t)
	ctx := housecontext.WithHouseID(context.Background(), f.houseID)

	_, err := f.svc.CloseMonth(ctx, domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.True(t, errors.Is(err, housedomain.ErrInvalidActor), "got %v", err)
}

func TestMonthStatusOpenByDefault(t *testing.T) {
	f := newFixture(t)

	status, err := f.svc.MonthStatus(f.ctx(), 2026, 3)
	require.NoError(t, err)
	require.Equal(t, domain.StateOpen, status.State)
	require.True(t, status.Open())
	require.Nil(t, status.ClosedAt)
}

func TestMonthStatusIndependentPerMonth(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	status, err := f.svc.MonthStatus(f.ctx(), 2026, 4)
	require.NoError(t, err)
	require.True(t, status.Open())

	status, err = f.svc.MonthStatus(f.ctx(), 2025, 3)
	require.NoError(t, err)
	require.True(t, status.Open())
}

func TestGateBlocksClosedMonth(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	err = f.db.Transaction(func(tx *gorm.DB) error {
		return f.gate.Check(context.Background(), tx, f.houseID, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC))
	})
	require.True(t, errors.Is(err, domain.ErrPeriodClosed), "got %v", err)
}

func TestGateAllowsNeighborMonths(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	for _, date := range []time.Time{
		time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	} {
		err = f.db.Transaction(func(tx *gorm.DB) error {
			return f.gate.Check(context.Background(), tx, f.houseID, date)
		})
		require.NoError(t, err, "date %s", date)
	}
}

func TestIsMonthClosed(t *testing.T) {
	f := newFixture(t)

	closed, err := f.svc.IsMonthClosed(context.Background(), f.houseID, 2026, 3)
	require.NoError(t, err)
	require.False(t, closed)

	_, err = f.svc.CloseMonth(f.ctx(), domain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	closed, err = f.svc.IsMonthClosed(context.Background(), f.houseID, 2026, 3)
	require.NoError(t, err)
	require.True(t, closed)
}
