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
	Category string
	From     time.Time
	To       time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *ExpenseRecord) error
	Delete(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*ExpenseRecord, error)
	List(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*ExpenseRecord, error)

	// SumForHouse and SumByCategory run the same window predicate, so the
	// breakdown total and the meal-rate numerator can never drift apart.
	SumForHouse(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) ([]CategorySum, error)
}
