// Package domain contains core types for the expense service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ExpenseRecord is one shared purchase attributed to a house and category.
type ExpenseRecord struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	HouseID     snowflake.ID    `gorm:"not null;index" json:"house_id"`
	Category    string          `gorm:"type:text;not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	CreatedBy   snowflake.ID    `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ExpenseRecord) TableName() string { return "expense_records" }

// CategorySum is one category's total within a window.
type CategorySum struct {
	Category string          `gorm:"column:category" json:"category"`
	Total    decimal.Decimal `gorm:"column:total" json:"total"`
}
