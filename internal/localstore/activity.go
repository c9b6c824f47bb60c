package localstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

// The activity bucket is kept newest first.
func (s *Store) activity(ctx context.Context) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	if err := s.read(ctx, BucketActivity, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AppendActivity(ctx context.Context, a *domain.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.activity(ctx)
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = s.now().Unix()
	}
	next := make([]domain.ActivityLog, 0, len(logs)+1)
	next = append(next, *a)
	next = append(next, logs...)
	if s.activityMax > 0 && len(next) > s.activityMax {
		next = next[:s.activityMax]
	}
	return s.write(ctx, BucketActivity, next)
}

func (s *Store) ListActivity(ctx context.Context, offset, limit int) ([]domain.ActivityLog, int64, error) {
	logs, err := s.activity(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(logs))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(logs) {
		return []domain.ActivityLog{}, total, nil
	}
	end := len(logs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]domain.ActivityLog, end-offset)
	copy(out, logs[offset:end])
	return out, total, nil
}

func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.activity(ctx)
	if err != nil {
		return err
	}
	next := make([]domain.ActivityLog, 0, len(logs))
	for _, l := range logs {
		if l.ID != id {
			next = append(next, l)
		}
	}
	if len(next) == len(logs) {
		return repo.ErrNotFound
	}
	return s.write(ctx, BucketActivity, next)
}

func (s *Store) ClearActivity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, BucketActivity, []domain.ActivityLog{})
}
