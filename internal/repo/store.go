package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// SQLStore adapts the repository functions to the storage interface consumed
// by the service layer. Uniqueness of protocol numbers is enforced by the
// ux_protocol_number index.
type SQLStore struct {
	DB *gorm.DB
	// ActivityMax caps the activity log; zero keeps everything.
	ActivityMax int
}

// NewSQLStore wraps db.
func NewSQLStore(db *gorm.DB, activityMax int) *SQLStore {
	return &SQLStore{DB: db, ActivityMax: activityMax}
}

func (s *SQLStore) NumbersForYear(ctx context.Context, yearPrefix string) ([]string, error) {
	return NumbersForYear(ctx, s.DB, yearPrefix)
}

func (s *SQLStore) CreateProtocol(ctx context.Context, p *domain.Protocol) error {
	return CreateProtocol(ctx, s.DB, p)
}

func (s *SQLStore) GetProtocol(ctx context.Context, id string) (*domain.Protocol, error) {
	return GetProtocol(ctx, s.DB, id)
}

func (s *SQLStore) UpdateProtocol(ctx context.Context, p *domain.Protocol) error {
	return UpdateProtocol(ctx, s.DB, p)
}

func (s *SQLStore) DeleteProtocol(ctx context.Context, id string) error {
	return DeleteProtocol(ctx, s.DB, id)
}

func (s *SQLStore) ListProtocols(ctx context.Context, max int) ([]domain.Protocol, error) {
	return ListProtocols(ctx, s.DB, max)
}

func (s *SQLStore) ProtocolsStats(ctx context.Context) (int64, *time.Time, error) {
	return ProtocolsStats(ctx, s.DB)
}

func (s *SQLStore) DocumentTypesStats(ctx context.Context) (int64, *time.Time, error) {
	return DocumentTypesStats(ctx, s.DB)
}

func (s *SQLStore) ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error) {
	return ListDocumentTypes(ctx, s.DB)
}

func (s *SQLStore) GetDocumentType(ctx context.Context, id uint) (*domain.DocumentType, error) {
	return GetDocumentType(ctx, s.DB, id)
}

func (s *SQLStore) CreateDocumentType(ctx context.Context, t *domain.DocumentType) error {
	return CreateDocumentType(ctx, s.DB, t)
}

func (s *SQLStore) UpdateDocumentType(ctx context.Context, t *domain.DocumentType) error {
	return UpdateDocumentType(ctx, s.DB, t)
}

func (s *SQLStore) DeleteDocumentType(ctx context.Context, id uint) error {
	return DeleteDocumentType(ctx, s.DB, id)
}

func (s *SQLStore) AppendActivity(ctx context.Context, a *domain.ActivityLog) error {
	return AppendActivity(ctx, s.DB, a, s.ActivityMax)
}

func (s *SQLStore) ListActivity(ctx context.Context, offset, limit int) ([]domain.ActivityLog, int64, error) {
	total, err := CountActivity(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ActivityLog{}, 0, nil
	}
	items, err := ListActivityPage(ctx, s.DB, offset, limit)
	return items, total, err
}

func (s *SQLStore) DeleteActivity(ctx context.Context, id string) error {
	return DeleteActivity(ctx, s.DB, id)
}

func (s *SQLStore) ClearActivity(ctx context.Context) error {
	return ClearActivity(ctx, s.DB)
}

// Invalidate is a no-op: the relational store has no read cache.
func (s *SQLStore) Invalidate() {}
