package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	MemberID snowflake.ID
	From     time.Time
	To       time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *DepositRecord) error
	Delete(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*DepositRecord, error)
	List(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*DepositRecord, error)
	SumByMember(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) ([]MemberSum, error)
}
