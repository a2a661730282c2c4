package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	closurerepo "github.com/dinetab/messbook/internal/closure/repository"
	closuresvc "github.com/dinetab/messbook/internal/closure/service"
	"github.com/dinetab/messbook/internal/config"
	"github.com/dinetab/messbook/internal/expense/domain"
	"github.com/dinetab/messbook/internal/expense/repository"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      domain.Service
	closures closuredomain.Service
	houseID  snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&housedomain.House{},
		&housedomain.Member{},
		&domain.ExpenseRecord{},
		&closuredomain.MonthClosure{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))

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

	closures := closuresvc.New(closuresvc.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fc,
		Repo:  closurerepo.Provide(),
	})

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fc,
		Repo:   repository.Provide(),
		Gate:   closuresvc.NewGate(closures),
		Policy: config.NewStaticPolicyHolder(config.DefaultPolicy()),
	})

	return &fixture{db: db, node: node, svc: svc, closures: closures, houseID: houseID}
}

func (f *fixture) ctx() context.Context {
	return housecontext.WithHouseID(context.Background(), f.houseID)
}

func (f *fixture) managerCtx() context.Context {
	return housecontext.WithActor(f.ctx(), housecontext.Actor{
		UserID:   f.node.Generate(),
		MemberID: f.node.Generate(),
		Role:     housedomain.RoleManager,
	})
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestAddExpense(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
		Category:    "Rice",
		Amount:      decimal.RequireFromString("1200.50"),
		Date:        day(5),
		Description: " weekly bazar ",
	})
	require.NoError(t, err)
	require.NotZero(t, record.ID)
	require.Equal(t, "Rice", record.Category)
	require.Equal(t, "weekly bazar", record.Description)
	require.True(t, record.Amount.Equal(decimal.RequireFromString("1200.50")))
}

func TestAddExpenseRecordsActor(t *testing.T) {
	f := newFixture(t)
	ctx := f.managerCtx()

	record, err := f.svc.Add(ctx, domain.AddExpenseRequest{
		Category: "Fish",
		Amount:   decimal.NewFromInt(300),
		Date:     day(5),
	})
	require.NoError(t, err)

	actor, _ := housecontext.ActorFromContext(ctx)
	require.Equal(t, actor.MemberID, record.CreatedBy)
}

func TestAddExpenseUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
		Category: "Cigarettes",
		Amount:   decimal.NewFromInt(100),
		Date:     day(5),
	})
	require.True(t, errors.Is(err, domain.ErrInvalidCategory), "got %v", err)
}

func TestAddExpenseCategoryCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
		Category: "rice",
		Amount:   decimal.NewFromInt(100),
		Date:     day(5),
	})
	require.NoError(t, err)
}

func TestAddExpenseInvalidAmount(t *testing.T) {
	f := newFixture(t)

	for _, raw := range []string{"0", "-5"} {
		_, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
			Category: "Rice",
			Amount:   decimal.RequireFromString(raw),
			Date:     day(5),
		})
		require.True(t, errors.Is(err, domain.ErrInvalidAmount), "amount %s: got %v", raw, err)
	}
}

func TestAddExpenseClosedMonth(t *testing.T) {
	f := newFixture(t)

	_, err := f.closures.CloseMonth(f.managerCtx(), closuredomain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	_, err = f.svc.Add(f.ctx(), domain.AddExpenseRequest{
		Category: "Rice",
		Amount:   decimal.NewFromInt(100),
		Date:     day(5),
	})
	require.True(t, errors.Is(err, closuredomain.ErrPeriodClosed), "got %v", err)
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
		Category: "Rice",
		Amount:   decimal.NewFromInt(100),
		Date:     day(5),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx(), domain.DeleteExpenseRequest{RecordID: record.ID}))

	err = f.svc.Delete(f.ctx(), domain.DeleteExpenseRequest{RecordID: record.ID})
	require.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestDeleteExpenseClosedMonth(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
		Category: "Rice",
		Amount:   decimal.NewFromInt(100),
		Date:     day(5),
	})
	require.NoError(t, err)

	_, err = f.closures.CloseMonth(f.managerCtx(), closuredomain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	err = f.svc.Delete(f.ctx(), domain.DeleteExpenseRequest{RecordID: record.ID})
	require.True(t, errors.Is(err, closuredomain.ErrPeriodClosed), "got %v", err)
}

func TestListExpensesByCategory(t *testing.T) {
	f := newFixture(t)

	for _, category := range []string{"Rice", "Rice", "Fish"} {
		_, err := f.svc.Add(f.ctx(), domain.AddExpenseRequest{
			Category: category,
			Amount:   decimal.NewFromInt(100),
			Date:     day(5),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(f.ctx(), domain.ListExpensesRequest{Year: 2026, Month: 3, Category: "Rice"})
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	for _, record := range resp.Records {
		require.Equal(t, "Rice", record.Category)
	}

	all, err := f.svc.List(f.ctx(), domain.ListExpensesRequest{Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Len(t, all.Records, 3)
}
