package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type AddExpenseRequest struct {
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

type DeleteExpenseRequest struct {
	RecordID snowflake.ID
}

type ListExpensesRequest struct {
	Year     int
	Month    int
	Category string
	Page     pagination.Pagination
}

type ListExpensesResponse struct {
	pagination.PageInfo
	Records []ExpenseRecord `json:"records"`
}

type Service interface {
	Add(ctx context.Context, req AddExpenseRequest) (ExpenseRecord, error)
	Delete(ctx context.Context, req DeleteExpenseRequest) error
	List(ctx context.Context, req ListExpensesRequest) (ListExpensesResponse, error)
}
