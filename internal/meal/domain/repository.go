package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListFilter struct {
	MemberID snowflake.ID
	From     time.Time
	To       time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *MealRecord) error
	UpdateCount(ctx context.Context, db *gorm.DB, id snowflake.ID, count decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*MealRecord, error)
	FindByMemberDate(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID, date time.Time) (*MealRecord, error)
	List(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*MealRecord, error)

	// SumForHouse is the rate denominator: every recorded meal in the
	// window counts, regardless of the member's current status.
	SumForHouse(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) (decimal.Decimal, error)
	SumByMember(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) ([]MemberSum, error)
}
