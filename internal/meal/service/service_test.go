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
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	houserepo "github.com/dinetab/messbook/internal/house/repository"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/dinetab/messbook/internal/meal/domain"
	"github.com/dinetab/messbook/internal/meal/repository"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
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
		&domain.MealRecord{},
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
		Policy:    config.NewStaticPolicyHolder(config.DefaultPolicy()),
	})

	return &fixture{
		db:       db,
		node:     node,
		clock:    fc,
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

func TestRecordMeal(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.RequireFromString("2.5"),
	})
	require.NoError(t, err)
	require.NotZero(t, record.ID)
	require.Equal(t, f.houseID, record.HouseID)
	require.True(t, record.Count.Equal(decimal.RequireFromString("2.5")))
}

func TestRecordMealOverwritesSameDay(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	second, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.Count.Equal(decimal.NewFromInt(3)))

	var count int64
	require.NoError(t, f.db.Model(&domain.MealRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRecordMealNormalizesDate(t *testing.T) {
	f := newFixture(t)

	// A timestamp inside the day collapses onto the same record as the
	// plain date.
	_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     time.Date(2026, time.March, 5, 23, 45, 0, 0, time.UTC),
		Count:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	second, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	require.True(t, second.Count.Equal(decimal.NewFromInt(2)))

	var count int64
	require.NoError(t, f.db.Model(&domain.MealRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRecordMealInvalidCount(t *testing.T) {
	f := newFixture(t)

	for _, raw := range []string{"-1", "3.5", "0.25", "1.2"} {
		_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
			MemberID: f.memberID,
			Date:     day(5),
			Count:    decimal.RequireFromString(raw),
		})
		require.True(t, errors.Is(err, domain.ErrInvalidCount), "count %s: got %v", raw, err)
	}

	// Zero and half steps up to the cap are fine.
	for _, raw := range []string{"0", "0.5", "3"} {
		_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
			MemberID: f.memberID,
			Date:     day(5),
			Count:    decimal.RequireFromString(raw),
		})
		require.NoError(t, err, "count %s", raw)
	}
}

func TestRecordMealZeroDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Count:    decimal.NewFromInt(1),
	})
	require.True(t, errors.Is(err, domain.ErrInvalidDate), "got %v", err)
}

func TestRecordMealUnknownMember(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.node.Generate(),
		Date:     day(5),
		Count:    decimal.NewFromInt(1),
	})
	require.True(t, errors.Is(err, housedomain.ErrMemberNotFound), "got %v", err)
}

func TestRecordMealInactiveMember(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&housedomain.Member{}).
		Where("id = ?", f.memberID).
		Update("status", housedomain.StatusInactive).Error)

	_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(1),
	})
	require.True(t, errors.Is(err, housedomain.ErrMemberNotActive), "got %v", err)
}

func TestRecordMealClosedMonth(t *testing.T) {
	f := newFixture(t)

	_, err := f.closures.CloseMonth(f.managerCtx(), closuredomain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	_, err = f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(1),
	})
	require.True(t, errors.Is(err, closuredomain.ErrPeriodClosed), "got %v", err)

	// Other months stay writable.
	_, err = f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Count:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)
}

func TestDeleteMeal(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx(), domain.DeleteMealRequest{RecordID: record.ID}))

	err = f.svc.Delete(f.ctx(), domain.DeleteMealRequest{RecordID: record.ID})
	require.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestDeleteMealClosedMonth(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     day(5),
		Count:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	_, err = f.closures.CloseMonth(f.managerCtx(), closuredomain.CloseMonthRequest{Year: 2026, Month: 3})
	require.NoError(t, err)

	err = f.svc.Delete(f.ctx(), domain.DeleteMealRequest{RecordID: record.ID})
	require.True(t, errors.Is(err, closuredomain.ErrPeriodClosed), "got %v", err)
}

func TestListMeals(t *testing.T) {
	f := newFixture(t)

	for d := 1; d <= 5; d++ {
		_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
			MemberID: f.memberID,
			Date:     day(d),
			Count:    decimal.NewFromInt(2),
		})
		require.NoError(t, err)
	}
	// A record outside March must stay out of the listing.
	_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
		MemberID: f.memberID,
		Date:     time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Count:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	resp, err := f.svc.List(f.ctx(), domain.ListMealsRequest{Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Len(t, resp.Records, 5)
	for i := 1; i < len(resp.Records); i++ {
		require.False(t, resp.Records[i].Date.Before(resp.Records[i-1].Date))
	}
}

func TestListMealsPagination(t *testing.T) {
	f := newFixture(t)

	for d := 1; d <= 7; d++ {
		_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
			MemberID: f.memberID,
			Date:     day(d),
			Count:    decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}

	first, err := f.svc.List(f.ctx(), domain.ListMealsRequest{
		Year:  2026,
		Month: 3,
		Page:  pagination.Pagination{PageSize: 3},
	})
	require.NoError(t, err)
	require.Len(t, first.Records, 3)
	require.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := f.svc.List(f.ctx(), domain.ListMealsRequest{
		Year:  2026,
		Month: 3,
		Page:  pagination.Pagination{PageSize: 10, PageToken: first.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, second.Records, 4)
	require.False(t, second.HasMore)
	require.Equal(t, day(4), second.Records[0].Date.UTC())
}

func TestListMealsFilterByMember(t *testing.T) {
	f := newFixture(t)

	other := housedomain.Member{
		ID:        f.node.Generate(),
		HouseID:   f.houseID,
		Name:      "Bob",
		Role:      housedomain.RoleMember,
		Status:    housedomain.StatusActive,
		JoinedAt:  f.clock.Now(),
		CreatedAt: f.clock.Now(),
		UpdatedAt: f.clock.Now(),
	}
	require.NoError(t, f.db.Create(&other).Error)

	for _, id := range []snowflake.ID{f.memberID, other.ID} {
		_, err := f.svc.Record(f.ctx(), domain.RecordMealRequest{
			MemberID: id,
			Date:     day(5),
			Count:    decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(f.ctx(), domain.ListMealsRequest{Year: 2026, Month: 3, MemberID: other.ID})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	require.Equal(t, other.ID, resp.Records[0].MemberID)
}
