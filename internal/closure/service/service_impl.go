package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	"github.com/dinetab/messbook/internal/closure/domain"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/dinetab/messbook/internal/period"
	"github.com/dinetab/messbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("closure.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// NewGate exposes the same service as the write gate consumed by the meal,
// expense and deposit services.
func NewGate(svc domain.Service) domain.Gate {
	return svc.(*Service)
}

func (s *Service) CloseMonth(ctx context.Context, req domain.CloseMonthRequest) (domain.CloseResult, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.CloseResult{}, housedomain.ErrInvalidHouse
	}
	actor, ok := housecontext.ActorFromContext(ctx)
	if !ok {
		return domain.CloseResult{}, housedomain.ErrInvalidActor
	}

	month, err := period.New(req.Year, req.Month)
	if err != nil {
		return domain.CloseResult{}, err
	}

	var result domain.CloseResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockHouse(ctx, tx, houseID); err != nil {
			return err
		}

		existing, err := s.repo.Find(ctx, tx, houseID, month)
		if err != nil {
			return err
		}
		if existing != nil {
			result = domain.CloseResult{
				Outcome: domain.CloseOutcomeAlreadyClosed,
				Closure: *existing,
			}
			return nil
		}

		closure := domain.MonthClosure{
			ID:        s.genID.Generate(),
			HouseID:   houseID,
			Year:      month.Year,
			Month:     int(month.Month),
			ClosedBy:  actor.MemberID,
			ClosedAt:  s.clock.Now(),
			CreatedAt: s.clock.Now(),
		}
		if err := s.repo.Insert(ctx, tx, &closure); err != nil {
			if db.IsDuplicateKeyErr(err) {
				raced, findErr := s.repo.Find(ctx, tx, houseID, month)
				if findErr != nil {
					return findErr
				}
				if raced != nil {
					result = domain.CloseResult{
						Outcome: domain.CloseOutcomeAlreadyClosed,
						Closure: *raced,
					}
					return nil
				}
			}
			return err
		}

		result = domain.CloseResult{
			Outcome: domain.CloseOutcomeClosed,
			Closure: closure,
		}
		return nil
	})
	if err != nil {
		return domain.CloseResult{}, err
	}

	if result.Outcome == domain.CloseOutcomeClosed {
		s.log.Info("month closed",
			zap.String("house_id", houseID.String()),
			zap.String("period", month.String()),
			zap.String("closed_by", result.Closure.ClosedBy.String()),
		)
	}
	return result, nil
}

func (s *Service) MonthStatus(ctx context.Context, year, month int) (domain.Status, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.Status{}, housedomain.ErrInvalidHouse
	}

	m, err := period.New(year, month)
	if err != nil {
		return domain.Status{}, err
	}

	closure, err := s.repo.Find(ctx, s.db, houseID, m)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.StatusOf(closure), nil
}

func (s *Service) IsMonthClosed(ctx context.Context, houseID snowflake.ID, year, month int) (bool, error) {
	m, err := period.New(year, month)
	if err != nil {
		return false, err
	}

	closure, err := s.repo.Find(ctx, s.db, houseID, m)
	if err != nil {
		return false, err
	}
	return closure != nil, nil
}

// Check implements domain.Gate. It takes the house write lock so the check
// and the caller's write serialize against a concurrent CloseMonth, then
// fails with ErrPeriodClosed when the record's month is already settled.
func (s *Service) Check(ctx context.Context, tx *gorm.DB, houseID snowflake.ID, date time.Time) error {
	if err := lockHouse(ctx, tx, houseID); err != nil {
		return err
	}

	closure, err := s.repo.Find(ctx, tx, houseID, period.Of(date))
	if err != nil {
		return err
	}
	if closure != nil {
		return domain.ErrPeriodClosed
	}
	return nil
}

// lockHouse acquires the per-house write lock inside tx. A self-assignment
// UPDATE takes a row lock on every supported engine, unlike SELECT ... FOR
// UPDATE which sqlite cannot parse.
func lockHouse(ctx context.Context, tx *gorm.DB, houseID snowflake.ID) error {
	result := tx.WithContext(ctx).Exec(`UPDATE houses SET updated_at = updated_at WHERE id = ?`, houseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return housedomain.ErrNotFound
	}
	return nil
}
