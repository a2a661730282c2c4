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
	"github.com/dinetab/messbook/internal/deposit/domain"
	"github.com/dinetab/messbook/internal/deposit/repository"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	houserepo "github.com/dinetab/messbook/internal/house/repository"
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
	memberID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&housedomain.House{},
		&housedomain.Member{},
		&domain.DepositRecord{},
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

	member := housedomain.Member{
		ID:        node.Generate(),
		HouseID:   houseID,
		Name:      "Alice",
		Role:      housedomain.RoleMember,
		Status:    housedomain.StatusActive,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&member).Error)

	closures := closuresvc.New(closuresvc.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fc,
		Repo:  closurerepo.Provide(),
	})

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fc,
		Repo:      repository.Provide(),
		HouseRepo: houserepo.Provide(),
		Gate:      closuresvc.NewGate(closures),
	})

	return &fixture{
		db:       db,
		node:     node,
		svc:      svc,
		closures: closures,
		houseID:  houseID,
		memberID: member.ID,
	}
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

func TestAddDeposit(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
		MemberID:    f.memberID,
		Amount:      decimal.RequireFromString("1500"),
		Date:        day(1),
		Description: "march advance",
	})
	require.NoError(t, err)
	require.NotZero(t, record.ID)
	require.Equal(t, f.memberID, record.MemberID)
	require.True(t, record.Amount.Equal(decimal.NewFromInt(1500)))
}

func TestAddDepositInvalidAmount(t *testing.T) {
	f := newFixture(t)

	for _, raw := range []string{"0", "-100"} {
		_, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
			MemberID: f.memberID,
			Amount:   decimal.RequireFromString(raw),
			Date:     day(1),
		})
		require.True(t, errors.Is(err, domain.ErrInvalidAmount), "amount %s: got %v", raw, err)
	}
}

func TestAddDepositUnknownMember(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
		MemberID: f.node.Generate(),
		Amount:   decimal.NewFromInt(100),
		Date:     day(1),
	})
	require.True(t, errors.Is(err, housedomain.ErrMemberNotFound), "got %v", err)
}

func TestAddDepositInactiveMember(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&housedomain.Member{}).
		Where("id = ?", f.memberID).
		Update("status", housedomain.StatusInactive).Error)

	_, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
		MemberID: f.memberID,
		Amount:   decimal.NewFromInt(100),
		Date:     day(1),
	})
	require.True(t, errors.Is(err, housedomain.ErrMemberNotActive), "got %v", err)
}

func TestAddDepositClosedMonth(t *testing.T) {
	f := newFixture(t)

	_, err := f.closures.CloseMonth(f.managerCtx(), closuredomain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	_, err = f.svc.Add(f.ctx(), domain.AddDepositRequest{
		MemberID: f.memberID,
		Amount:   decimal.NewFromInt(100),
		Date:     day(1),
	})
	require.True(t, errors.Is(err, closuredomain.ErrPeriodClosed), "got %v", err)
}

func TestDeleteDeposit(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
		MemberID: f.memberID,
		Amount:   decimal.NewFromInt(100),
		Date:     day(1),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx(), domain.DeleteDepositRequest{RecordID: record.ID}))

	err = f.svc.Delete(f.ctx(), domain.DeleteDepositRequest{RecordID: record.ID})
	require.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestDeleteDepositClosedMonth(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
		MemberID: f.memberID,
		Amount:   decimal.NewFromInt(100),
		Date:     day(1),
	})
	require.NoError(t, err)

	_, err = f.closures.CloseMonth(f.managerCtx(), closuredomain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	err = f.svc.Delete(f.ctx(), domain.DeleteDepositRequest{RecordID: record.ID})
	require.True(t, errors.Is(err, closuredomain.ErrPeriodClosed), "got %v", err)
}

func TestListDepositsByMember(t *testing.T) {
	f := newFixture(t)

	other := housedomain.Member{
		ID:       f.node.Generate(),
		HouseID:  f.houseID,
		Name:     "Bob",
		Role:     housedomain.RoleMember,
		Status:   housedomain.StatusActive,
		JoinedAt: day(1),
	}
	require.NoError(t, f.db.Create(&other).Error)

	for _, id := range []snowflake.ID{f.memberID, f.memberID, other.ID} {
		_, err := f.svc.Add(f.ctx(), domain.AddDepositRequest{
			MemberID: id,
			Amount:   decimal.NewFromInt(500),
			Date:     day(1),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(f.ctx(), domain.ListDepositsRequest{Year: 2026, Month: 3, MemberID: f.memberID})
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	for _, record := range resp.Records {
		require.Equal(t, f.memberID, record.MemberID)
	}

	all, err := f.svc.List(f.ctx(), domain.ListDepositsRequest{Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Len(t, all.Records, 3)
}
