package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/closure/domain"
	"github.com/dinetab/messbook/internal/period"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, closure *domain.MonthClosure) error {
	return db.WithContext(ctx).Create(closure).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, houseID snowflake.ID, month period.Month) (*domain.MonthClosure, error) {
	var closure domain.MonthClosure
	err := db.WithContext(ctx).
		First(&closure, "house_id = ? AND year = ? AND month = ?", houseID, month.Year, int(month.Month)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &closure, nil
}
