// Package domain contains core types for the meal service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MealRecord is one member's meal count for one calendar date. The unique
// index keeps at most one row per (house, member, date); recording again
// overwrites the count while the month is open.
type MealRecord struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	HouseID   snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_meal_records_member_date,priority:1" json:"house_id"`
	MemberID  snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_meal_records_member_date,priority:2" json:"member_id"`
	Date      time.Time       `gorm:"not null;uniqueIndex:ux_meal_records_member_date,priority:3" json:"date"`
	Count     decimal.Decimal `gorm:"type:decimal(4,1);not null" json:"count"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MealRecord) TableName() string { return "meal_records" }

// MemberSum is a per-member meal total within a window.
type MemberSum struct {
	MemberID snowflake.ID    `gorm:"column:member_id"`
	Total    decimal.Decimal `gorm:"column:total"`
}
