package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/house/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertHouse(ctx context.Context, db *gorm.DB, house *domain.House) error {
	return db.WithContext(ctx).Create(house).Error
}

func (r *repo) FindHouseByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.House, error) {
	var house domain.House
	err := db.WithContext(ctx).First(&house, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *repo) FindHouseByJoinCode(ctx context.Context, db *gorm.DB, joinCode string) (*domain.House, error) {
	var house domain.House
	err := db.WithContext(ctx).First(&house, "join_code = ?", joinCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *repo) InsertMember(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *repo) FindMemberByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).First(&member, "house_id = ? AND id = ?", houseID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repo) FindMemberByUser(ctx context.Context, db *gorm.DB, houseID, userID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).First(&member, "house_id = ? AND user_id = ?", houseID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter domain.ListMemberFilter) ([]*domain.Member, error) {
	var members []*domain.Member
	stmt := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("house_id = ?", houseID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		stmt = stmt.Where("role = ?", filter.Role)
	}
	err := stmt.Order("joined_at asc, id asc").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) ListMembershipsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.Member, error) {
	var members []*domain.Member
	err := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) UpdateMemberStatus(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID, status string) error {
	result := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("house_id = ? AND id = ?", houseID, memberID).
		Updates(map[string]any{"status": status, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repo) DeleteMember(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID) error {
	result := db.WithContext(ctx).
		Where("house_id = ? AND id = ?", houseID, memberID).
		Delete(&domain.Member{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repo) MemberHasHistory(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID) (bool, error) {
	var row struct {
		Meals    int64 `gorm:"column:meals"`
		Deposits int64 `gorm:"column:deposits"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COUNT(1) FROM meal_records WHERE house_id = ? AND member_id = ?) AS meals,
			(SELECT COUNT(1) FROM deposit_records WHERE house_id = ? AND member_id = ?) AS deposits`,
		houseID, memberID, houseID, memberID,
	).Scan(&row).Error
	if err != nil {
		return false, err
	}
	return row.Meals > 0 || row.Deposits > 0, nil
}
