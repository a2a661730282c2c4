package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListMemberFilter struct {
	Status string
	Role   string
}

type Repository interface {
	InsertHouse(ctx context.Context, db *gorm.DB, house *House) error
	FindHouseByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*House, error)
	FindHouseByJoinCode(ctx context.Context, db *gorm.DB, joinCode string) (*House, error)

	InsertMember(ctx context.Context, db *gorm.DB, member *Member) error
	FindMemberByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*Member, error)
	FindMemberByUser(ctx context.Context, db *gorm.DB, houseID, userID snowflake.ID) (*Member, error)
	ListMembers(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter ListMemberFilter) ([]*Member, error)
	ListMembershipsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Member, error)
	UpdateMemberStatus(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID, status string) error
	DeleteMember(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID) error

	// MemberHasHistory reports whether any meal or deposit rows reference
	// the member. Members with history must never be hard-deleted.
	MemberHasHistory(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID) (bool, error)
}
