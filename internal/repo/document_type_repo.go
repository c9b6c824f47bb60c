package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// ListDocumentTypes returns all document types ordered by ID.
func ListDocumentTypes(ctx context.Context, db *gorm.DB) ([]domain.DocumentType, error) {
	var out []domain.DocumentType
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// GetDocumentType fetches a document type by ID or returns ErrNotFound.
func GetDocumentType(ctx context.Context, db *gorm.DB, id uint) (*domain.DocumentType, error) {
	var t domain.DocumentType
	if err := db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateDocumentType inserts t. The abbreviation is derived by the model's
// BeforeSave hook. An explicit ID is kept (imports); zero auto-increments.
func CreateDocumentType(ctx context.Context, db *gorm.DB, t *domain.DocumentType) error {
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateDocumentType renames a document type and refreshes its abbreviation.
func UpdateDocumentType(ctx context.Context, db *gorm.DB, t *domain.DocumentType) error {
	t.Abbreviation = domain.DeriveAbbreviation(t.Name)
	res := db.WithContext(ctx).
		Model(&domain.DocumentType{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{"name": t.Name, "abbreviation": t.Abbreviation})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDocumentType removes a document type. Protocols referencing it are
// left untouched.
func DeleteDocumentType(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.DocumentType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
