// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Protocol
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - Missing rows return ErrNotFound (gorm.ErrRecordNotFound).
//   - Unique violations on protocol_number return ErrDuplicate.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// protocolMutableColumns are the columns UpdateProtocol writes. Number, year,
// creator and creation time are never updated.
var protocolMutableColumns = []string{
	"shop_number", "delivered_by", "document_type_id", "quantity", "observations",
	"status", "updated_by", "archived_by", "archived_at", "updated_at",
}

// NumbersForYear returns every protocol number starting with yearPrefix,
// soft-deleted rows included, so deleted numbers are never handed out again.
func NumbersForYear(ctx context.Context, db *gorm.DB, yearPrefix string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Unscoped().
		Model(&domain.Protocol{}).
		Where("protocol_number LIKE ? ESCAPE '\\'", escapeLike(yearPrefix)+"%").
		Pluck("protocol_number", &out).Error
	return out, err
}

// CreateProtocol inserts p, assigning a UUID when p.ID is empty. A taken
// protocol number yields ErrDuplicate.
func CreateProtocol(ctx context.Context, db *gorm.DB, p *domain.Protocol) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetProtocol fetches a live protocol by ID.
func GetProtocol(ctx context.Context, db *gorm.DB, id string) (*domain.Protocol, error) {
	var p domain.Protocol
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProtocol writes the mutable columns of p. It returns ErrNotFound when
// no live row has p.ID.
func UpdateProtocol(ctx context.Context, db *gorm.DB, p *domain.Protocol) error {
	res := db.WithContext(ctx).
		Model(p).
		Select(protocolMutableColumns).
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProtocol soft-deletes a protocol. The row stays in the table so its
// number remains reserved.
func DeleteProtocol(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Protocol{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProtocols returns up to max live protocols, newest first. A
// non-positive max means no limit.
func ListProtocols(ctx context.Context, db *gorm.DB, max int) ([]domain.Protocol, error) {
	q := db.WithContext(ctx).Order("created_at desc").Order("protocol_number desc")
	if max > 0 {
		q = q.Limit(max)
	}
	var out []domain.Protocol
	err := q.Find(&out).Error
	return out, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
