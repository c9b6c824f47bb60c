package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// AppendActivity inserts a log entry and, when max > 0, prunes everything
// beyond the newest max entries in the same transaction.
func AppendActivity(ctx context.Context, db *gorm.DB, a *domain.ActivityLog, max int) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		if max <= 0 {
			return nil
		}
		keep := tx.Model(&domain.ActivityLog{}).
			Select("id").
			Order("created_at desc").
			Order("id desc").
			Limit(max)
		return tx.Where("id NOT IN (?)", keep).Delete(&domain.ActivityLog{}).Error
	})
}

// CountActivity returns the number of log entries.
func CountActivity(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.ActivityLog{}).Count(&total).Error
	return total, err
}

// ListActivityPage returns a page of log entries, newest first.
func ListActivityPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteActivity removes one entry or returns ErrNotFound.
func DeleteActivity(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ActivityLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearActivity removes every entry.
func ClearActivity(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Where("1 = 1").Delete(&domain.ActivityLog{}).Error
}
