package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type RecordMealRequest struct {
	MemberID snowflake.ID
	Date     time.Time
	Count    decimal.Decimal
}

type DeleteMealRequest struct {
	RecordID snowflake.ID
}

type ListMealsRequest struct {
	Year     int
	Month    int
	MemberID snowflake.ID
	Page     pagination.Pagination
}

type ListMealsResponse struct {
	pagination.PageInfo
	Records []MealRecord `json:"records"`
}

type Service interface {
	// Record inserts or overwrites the member's count for the date.
	Record(ctx context.Context, req RecordMealRequest) (MealRecord, error)
	Delete(ctx context.Context, req DeleteMealRequest) error
	List(ctx context.Context, req ListMealsRequest) (ListMealsResponse, error)
}
