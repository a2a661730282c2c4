package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/period"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, closure *MonthClosure) error
	Find(ctx context.Context, db *gorm.DB, houseID snowflake.ID, month period.Month) (*MonthClosure, error)
}
