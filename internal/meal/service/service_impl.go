package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/config"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/dinetab/messbook/internal/meal/domain"
	"github.com/dinetab/messbook/internal/period"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	HouseRepo housedomain.Repository
	Gate      closuredomain.Gate
	Policy    *config.PolicyHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	houseRepo housedomain.Repository
	gate      closuredomain.Gate
	policy    *config.PolicyHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("meal.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		houseRepo: p.HouseRepo,
		gate:      p.Gate,
		policy:    p.Policy,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordMealRequest) (domain.MealRecord, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.MealRecord{}, housedomain.ErrInvalidHouse
	}

	date, err := normalizeDate(req.Date)
	if err != nil {
		return domain.MealRecord{}, err
	}
	if err := s.validateCount(req.Count); err != nil {
		return domain.MealRecord{}, err
	}

	member, err := s.houseRepo.FindMemberByID(ctx, s.db, houseID, req.MemberID)
	if err != nil {
		return domain.MealRecord{}, err
	}
	if member == nil {
		return domain.MealRecord{}, housedomain.ErrMemberNotFound
	}
	if !member.IsActive() {
		return domain.MealRecord{}, housedomain.ErrMemberNotActive
	}

	var record domain.MealRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gate.Check(ctx, tx, houseID, date); err != nil {
			return err
		}

		existing, err := s.repo.FindByMemberDate(ctx, tx, houseID, req.MemberID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			// Overwriting the day's count is the normal correction
			// flow while the month is open.
			if err := s.repo.UpdateCount(ctx, tx, existing.ID, req.Count, s.clock.Now()); err != nil {
				return err
			}
			record = *existing
			record.Count = req.Count
			return nil
		}

		now := s.clock.Now()
		record = domain.MealRecord{
			ID:        s.genID.Generate(),
			HouseID:   houseID,
			MemberID:  req.MemberID,
			Date:      date,
			Count:     req.Count,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.repo.Insert(ctx, tx, &record)
	})
	if err != nil {
		return domain.MealRecord{}, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteMealRequest) error {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return housedomain.ErrInvalidHouse
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByID(ctx, tx, houseID, req.RecordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		if err := s.gate.Check(ctx, tx, houseID, record.Date); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, houseID, record.ID)
	})
}

func (s *Service) List(ctx context.Context, req domain.ListMealsRequest) (domain.ListMealsResponse, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.ListMealsResponse{}, housedomain.ErrInvalidHouse
	}

	filter := domain.ListFilter{MemberID: req.MemberID}
	if req.Year != 0 || req.Month != 0 {
		month, err := period.New(req.Year, req.Month)
		if err != nil {
			return domain.ListMealsResponse{}, err
		}
		filter.From, filter.To = month.Window()
	}

	page := req.Page
	if page.PageSize <= 0 {
		page.PageSize = 31
	}

	items, err := s.repo.List(ctx, s.db, houseID, filter, page)
	if err != nil {
		return domain.ListMealsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, page.PageSize, func(record *domain.MealRecord) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.Date.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > page.PageSize {
		items = items[:page.PageSize]
	}

	records := make([]domain.MealRecord, 0, len(items))
	for _, item := range items {
		if item != nil {
			records = append(records, *item)
		}
	}

	resp := domain.ListMealsResponse{Records: records}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) validateCount(count decimal.Decimal) error {
	if count.IsNegative() {
		return domain.ErrInvalidCount
	}
	limit := decimal.NewFromFloat(s.policy.Get().MaxMealsPerDay)
	if count.GreaterThan(limit) {
		return domain.ErrInvalidCount
	}
	// Half-meal granularity: doubling must land on a whole number.
	if !count.Mul(decimal.NewFromInt(2)).IsInteger() {
		return domain.ErrInvalidCount
	}
	return nil
}

func normalizeDate(date time.Time) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, domain.ErrInvalidDate
	}
	date = date.UTC()
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
}
