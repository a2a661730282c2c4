package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/config"
	"github.com/dinetab/messbook/internal/expense/domain"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/dinetab/messbook/internal/period"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Gate   closuredomain.Gate
	Policy *config.PolicyHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   domain.Repository
	gate   closuredomain.Gate
	policy *config.PolicyHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("expense.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		gate:   p.Gate,
		policy: p.Policy,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddExpenseRequest) (domain.ExpenseRecord, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.ExpenseRecord{}, housedomain.ErrInvalidHouse
	}

	category := strings.TrimSpace(req.Category)
	if !s.policy.Get().HasCategory(category) {
		return domain.ExpenseRecord{}, domain.ErrInvalidCategory
	}
	if !req.Amount.IsPositive() {
		return domain.ExpenseRecord{}, domain.ErrInvalidAmount
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return domain.ExpenseRecord{}, err
	}

	var createdBy snowflake.ID
	if actor, ok := housecontext.ActorFromContext(ctx); ok {
		createdBy = actor.MemberID
	}

	var record domain.ExpenseRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gate.Check(ctx, tx, houseID, date); err != nil {
			return err
		}

		now := s.clock.Now()
		record = domain.ExpenseRecord{
			ID:          s.genID.Generate(),
			HouseID:     houseID,
			Category:    category,
			Amount:      req.Amount,
			Date:        date,
			Description: strings.TrimSpace(req.Description),
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return s.repo.Insert(ctx, tx, &record)
	})
	if err != nil {
		return domain.ExpenseRecord{}, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteExpenseRequest) error {
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

func (s *Service) List(ctx context.Context, req domain.ListExpensesRequest) (domain.ListExpensesResponse, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.ListExpensesResponse{}, housedomain.ErrInvalidHouse
	}

	filter := domain.ListFilter{Category: strings.TrimSpace(req.Category)}
	if req.Year != 0 || req.Month != 0 {
		month, err := period.New(req.Year, req.Month)
		if err != nil {
			return domain.ListExpensesResponse{}, err
		}
		filter.From, filter.To = month.Window()
	}

	page := req.Page
	if page.PageSize <= 0 {
		page.PageSize = 31
	}

	items, err := s.repo.List(ctx, s.db, houseID, filter, page)
	if err != nil {
		return domain.ListExpensesResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, page.PageSize, func(record *domain.ExpenseRecord) string {
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

	records := make([]domain.ExpenseRecord, 0, len(items))
	for _, item := range items {
		if item != nil {
			records = append(records, *item)
		}
	}

	resp := domain.ListExpensesResponse{Records: records}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func normalizeDate(date time.Time) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, domain.ErrInvalidDate
	}
	date = date.UTC()
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
}
