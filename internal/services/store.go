package services

import (
	"context"
	"errors"
	"time"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

// ProtocolStore is the persistence contract for protocols. Implementations
// return repo.ErrNotFound for missing rows and repo.ErrDuplicate when a
// protocol number is already taken.
type ProtocolStore interface {
	// NumbersForYear returns every issued number with the given year prefix,
	// deleted protocols included.
	NumbersForYear(ctx context.Context, yearPrefix string) ([]string, error)
	CreateProtocol(ctx context.Context, p *domain.Protocol) error
	GetProtocol(ctx context.Context, id string) (*domain.Protocol, error)
	UpdateProtocol(ctx context.Context, p *domain.Protocol) error
	DeleteProtocol(ctx context.Context, id string) error
	// ListProtocols returns at most max live protocols, newest first.
	ListProtocols(ctx context.Context, max int) ([]domain.Protocol, error)
	// ProtocolsStats returns the live row count and latest update time.
	ProtocolsStats(ctx context.Context) (int64, *time.Time, error)
}

// DocumentTypeStore is the persistence contract for document types.
type DocumentTypeStore interface {
	ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error)
	GetDocumentType(ctx context.Context, id uint) (*domain.DocumentType, error)
	CreateDocumentType(ctx context.Context, t *domain.DocumentType) error
	UpdateDocumentType(ctx context.Context, t *domain.DocumentType) error
	DeleteDocumentType(ctx context.Context, id uint) error
	// DocumentTypesStats returns the type count and latest update time.
	DocumentTypesStats(ctx context.Context) (int64, *time.Time, error)
}

// ActivityStore is the persistence contract for the activity log.
type ActivityStore interface {
	AppendActivity(ctx context.Context, a *domain.ActivityLog) error
	ListActivity(ctx context.Context, offset, limit int) ([]domain.ActivityLog, int64, error)
	DeleteActivity(ctx context.Context, id string) error
	ClearActivity(ctx context.Context) error
}

// Store bundles every contract. repo.SQLStore and localstore.Store both
// satisfy it.
type Store interface {
	ProtocolStore
	DocumentTypeStore
	ActivityStore
	// Invalidate drops any read cache held by the store.
	Invalidate()
}

// roundTrip runs one store call under timeout and classifies deadline hits
// as ErrStoreTimeout. Other errors are returned unchanged.
func roundTrip(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return wrap(ErrStoreTimeout, err)
	}
	return err
}

// storeErr maps a store failure to a service error. notFound replaces
// repo.ErrNotFound when non-nil.
func storeErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStoreTimeout):
		return err
	case notFound != nil && errors.Is(err, repo.ErrNotFound):
		return notFound
	default:
		return wrap(ErrBackendUnavailable, err)
	}
}
