package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/meal/domain"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.MealRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) UpdateCount(ctx context.Context, db *gorm.DB, id snowflake.ID, count decimal.Decimal, updatedAt time.Time) error {
	result := db.WithContext(ctx).
		Model(&domain.MealRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"count": count, "updated_at": updatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) error {
	result := db.WithContext(ctx).
		Where("house_id = ? AND id = ?", houseID, id).
		Delete(&domain.MealRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*domain.MealRecord, error) {
	var record domain.MealRecord
	err := db.WithContext(ctx).First(&record, "house_id = ? AND id = ?", houseID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) FindByMemberDate(ctx context.Context, db *gorm.DB, houseID, memberID snowflake.ID, date time.Time) (*domain.MealRecord, error) {
	var record domain.MealRecord
	err := db.WithContext(ctx).
		First(&record, "house_id = ? AND member_id = ? AND date = ?", houseID, memberID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.MealRecord, error) {
	var records []*domain.MealRecord
	stmt := db.WithContext(ctx).
		Model(&domain.MealRecord{}).
		Where("house_id = ?", houseID)
	if filter.MemberID != 0 {
		stmt = stmt.Where("member_id = ?", filter.MemberID)
	}
	if !filter.From.IsZero() {
		stmt = stmt.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		stmt = stmt.Where("date < ?", filter.To)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		lastID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		lastDate, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(date > ?) OR (date = ? AND id > ?)", lastDate, lastDate, lastID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	err := stmt.Order("date asc, id asc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) SumForHouse(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(count), 0) AS total
		 FROM meal_records
		 WHERE house_id = ? AND date >= ? AND date < ?`,
		houseID, from, to,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *repo) SumByMember(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) ([]domain.MemberSum, error) {
	var rows []domain.MemberSum
	err := db.WithContext(ctx).Raw(
		`SELECT member_id, COALESCE(SUM(count), 0) AS total
		 FROM meal_records
		 WHERE house_id = ? AND date >= ? AND date < ?
		 GROUP BY member_id`,
		houseID, from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
