package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/deposit/domain"
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

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	HouseRepo housedomain.Repository
	Gate      closuredomain.Gate
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	houseRepo housedomain.Repository
	gate      closuredomain.Gate
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("deposit.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		houseRepo: p.HouseRepo,
		gate:      p.Gate,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddDepositRequest) (domain.DepositRecord, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.DepositRecord{}, housedomain.ErrInvalidHouse
	}

	if !req.Amount.IsPositive() {
		return domain.DepositRecord{}, domain.ErrInvalidAmount
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return domain.DepositRecord{}, err
	}

	member, err := s.houseRepo.FindMemberByID(ctx, s.db, houseID, req.MemberID)
	if err != nil {
		return domain.DepositRecord{}, err
	}
	if member == nil {
		return domain.DepositRecord{}, housedomain.ErrMemberNotFound
	}
	if !member.IsActive() {
		return domain.DepositRecord{}, housedomain.ErrMemberNotActive
	}

	var record domain.DepositRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gate.Check(ctx, tx, houseID, date); err != nil {
			return err
		}

		now := s.clock.Now()
		record = domain.DepositRecord{
			ID:          s.genID.Generate(),
			HouseID:     houseID,
			MemberID:    req.MemberID,
			Amount:      req.Amount,
			Date:        date,
			Description: strings.TrimSpace(req.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return s.repo.Insert(ctx, tx, &record)
	})
	if err != nil {
		return domain.DepositRecord{}, err
	}

	s.log.Info("deposit recorded",
		zap.Int64("house_id", int64(houseID)),
		zap.Int64("member_id", int64(req.MemberID)),
		zap.String("amount", req.Amount.String()),
	)
	return record, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteDepositRequest) error {
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

func (s *Service) List(ctx context.Context, req domain.ListDepositsRequest) (domain.ListDepositsResponse, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.ListDepositsResponse{}, housedomain.ErrInvalidHouse
	}

	filter := domain.ListFilter{MemberID: req.MemberID}
	if req.Year != 0 || req.Month != 0 {
		month, err := period.New(req.Year, req.Month)
		if err != nil {
			return domain.ListDepositsResponse{}, err
		}
		filter.From, filter.To = month.Window()
	}

	page := req.Page
	if page.PageSize <= 0 {
		page.PageSize = 31
	}

	items, err := s.repo.List(ctx, s.db, houseID, filter, page)
	if err != nil {
		return domain.ListDepositsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, page.PageSize, func(record *domain.DepositRecord) string {
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

	records := make([]domain.DepositRecord, 0, len(items))
	for _, item := range items {
		if item != nil {
			records = append(records, *item)
		}
	}

	resp := domain.ListDepositsResponse{Records: records}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func normalizeDate(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, domain.ErrInvalidDate
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), nil
}
