// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// ProtocolsStats returns aggregate metadata for live protocols: the total
// number of rows and the maximum UpdatedAt timestamp among those rows.
//
// When there are no protocols, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total live protocols
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func ProtocolsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	return tableStats(ctx, db, &domain.Protocol{})
}

// DocumentTypesStats is ProtocolsStats for document types. List responses
// embed type names, so their validators depend on this too.
func DocumentTypesStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	return tableStats(ctx, db, &domain.DocumentType{})
}

func tableStats(ctx context.Context, db *gorm.DB, model any) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(model)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(model).Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
