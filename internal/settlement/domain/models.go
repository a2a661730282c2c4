// Package domain contains the settlement report types.
package domain

import (
	"github.com/bwmarrin/snowflake"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	"github.com/shopspring/decimal"
)

// MemberSettlement is one member's line in the monthly report. Members with
// no activity in the month still get a line with zero values.
type MemberSettlement struct {
	MemberID snowflake.ID    `json:"member_id"`
	Name     string          `json:"name"`
	Meals    decimal.Decimal `json:"meals"`
	Deposits decimal.Decimal `json:"deposits"`
	MealCost decimal.Decimal `json:"meal_cost"`
	Balance  decimal.Decimal `json:"balance"`
}

// MonthlyReport is the settlement for one house month.
type MonthlyReport struct {
	HouseID       snowflake.ID         `json:"house_id"`
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	Status        closuredomain.Status `json:"status"`
	TotalExpenses decimal.Decimal      `json:"total_expenses"`
	TotalMeals    decimal.Decimal      `json:"total_meals"`
	TotalDeposits decimal.Decimal      `json:"total_deposits"`
	MealRate      decimal.Decimal      `json:"meal_rate"`
	Members       []MemberSettlement   `json:"members"`
}

// CategoryShare is one category's slice of the month's spending.
type CategoryShare struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseBreakdown is the per-category view of one house month. Total always
// equals the sum of the shares and the expense total used for the meal rate.
type ExpenseBreakdown struct {
	HouseID    snowflake.ID    `json:"house_id"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Categories []CategoryShare `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}
