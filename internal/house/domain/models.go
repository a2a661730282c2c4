// Package domain contains core types for the house service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Member roles within a house.
const (
	RoleManager = "manager"
	RoleMember  = "member"
)

// Member lifecycle states.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// House represents a tenant household. Every other record in the ledger is
// scoped by its ID.
type House struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex:ux_houses_slug" json:"slug"`
	JoinCode  string            `gorm:"column:join_code;type:text;not null;uniqueIndex:ux_houses_join_code" json:"join_code"`
	Active    bool              `gorm:"not null;default:true" json:"active"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (House) TableName() string { return "houses" }

// Member is a person tracked within a house. UserID is zero for members a
// manager entered by hand, set once the person joins with a login.
type Member struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	HouseID   snowflake.ID `gorm:"not null;index" json:"house_id"`
	UserID    snowflake.ID `gorm:"index" json:"user_id,omitempty"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	JoinedAt  time.Time    `gorm:"not null" json:"joined_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }

// IsActive reports whether the member counts toward the settlement roster.
func (m Member) IsActive() bool { return m.Status == StatusActive }
