package httpapi

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/http/middleware"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

// idemStore persists Idempotency-Key outcomes in the idempotency table. It
// serves both the handlers (replay of a created protocol) and the validator
// middleware (rate-limit bypass for replays).
type idemStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func newIdemStore(db *gorm.DB, ttl time.Duration) *idemStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &idemStore{db: db, ttl: ttl}
}

// Find returns the stored resource for (user, scope, key) when it has not
// expired. Lookup failures are treated as a miss.
func (s *idemStore) Find(ctx context.Context, userID, scope, key string, now time.Time) (string, int, bool) {
	rec, err := repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
	if err != nil || rec == nil || rec.ResourceID == "" {
		return "", 0, false
	}
	return rec.ResourceID, rec.Status, true
}

// Remember records the outcome. A concurrent request that stored the same
// key first wins; the duplicate is not an error for the caller.
func (s *idemStore) Remember(ctx context.Context, userID, scope, key, resourceID string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, resourceID, status, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// lookup adapts the store to middleware.IdempotencyLookup.
func (s *idemStore) lookup() middleware.IdempotencyLookup {
	return func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, repo.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}
