// Package domain contains core types for the deposit service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DepositRecord is money a member handed to the house kitty.
type DepositRecord struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	HouseID     snowflake.ID    `gorm:"not null;index" json:"house_id"`
	MemberID    snowflake.ID    `gorm:"not null;index" json:"member_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (DepositRecord) TableName() string { return "deposit_records" }

// MemberSum is a per-member deposit total within a window.
type MemberSum struct {
	MemberID snowflake.ID    `gorm:"column:member_id"`
	Total    decimal.Decimal `gorm:"column:total"`
}
