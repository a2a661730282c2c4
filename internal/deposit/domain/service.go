package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type AddDepositRequest struct {
	MemberID    snowflake.ID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

type DeleteDepositRequest struct {
	RecordID snowflake.ID
}

type ListDepositsRequest struct {
	Year     int
	Month    int
	MemberID snowflake.ID
	Page     pagination.Pagination
}

type ListDepositsResponse struct {
	pagination.PageInfo
	Records []DepositRecord `json:"records"`
}

type Service interface {
	Add(ctx context.Context, req AddDepositRequest) (DepositRecord, error)
	Delete(ctx context.Context, req DeleteDepositRequest) error
	List(ctx context.Context, req ListDepositsRequest) (ListDepositsResponse, error)
}
