package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/expense/domain"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.ExpenseRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) error {
	result := db.WithContext(ctx).
		Where("house_id = ? AND id = ?", houseID, id).
		Delete(&domain.ExpenseRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, houseID, id snowflake.ID) (*domain.ExpenseRecord, error) {
	var record domain.ExpenseRecord
	err := db.WithContext(ctx).First(&record, "house_id = ? AND id = ?", houseID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, houseID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.ExpenseRecord, error) {
	var records []*domain.ExpenseRecord
	stmt := db.WithContext(ctx).
		Model(&domain.ExpenseRecord{}).
		Where("house_id = ?", houseID)
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
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
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM expense_records
		 WHERE house_id = ? AND date >= ? AND date < ?`,
		houseID, from, to,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *repo) SumByCategory(ctx context.Context, db *gorm.DB, houseID snowflake.ID, from, to time.Time) ([]domain.CategorySum, error) {
	var rows []domain.CategorySum
	err := db.WithContext(ctx).Raw(
		`SELECT category, COALESCE(SUM(amount), 0) AS total
		 FROM expense_records
		 WHERE house_id = ? AND date >= ? AND date < ?
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		houseID, from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
