package localstore

import (
	"context"
	"sort"
	"time"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

func (s *Store) documentTypes(ctx context.Context) ([]domain.DocumentType, error) {
	var out []domain.DocumentType
	if err := s.read(ctx, BucketDocumentTypes, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error) {
	out, err := s.documentTypes(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if out == nil {
		out = []domain.DocumentType{}
	}
	return out, nil
}

func (s *Store) GetDocumentType(ctx context.Context, id uint) (*domain.DocumentType, error) {
	types, err := s.documentTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, repo.ErrNotFound
}

// typeSeq returns the document type high-water mark. Snapshots written
// before the mark existed fall back to the largest live id.
func (s *Store) typeSeq(ctx context.Context, types []domain.DocumentType) (uint, error) {
	var seq uint
	if err := s.read(ctx, BucketDocumentTypeSeq, &seq); err != nil {
		return 0, err
	}
	for _, t := range types {
		if t.ID > seq {
			seq = t.ID
		}
	}
	return seq, nil
}

// CreateDocumentType assigns the next id above every id ever issued when
// t.ID is zero, so a deleted type's id is never reused.
func (s *Store) CreateDocumentType(ctx context.Context, t *domain.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	types, err := s.documentTypes(ctx)
	if err != nil {
		return err
	}
	for _, cur := range types {
		if t.ID != 0 && cur.ID == t.ID {
			return repo.ErrDuplicate
		}
	}
	seq, err := s.typeSeq(ctx, types)
	if err != nil {
		return err
	}
	if t.ID == 0 {
		t.ID = seq + 1
	}
	if t.ID > seq {
		seq = t.ID
	}
	now := s.now().UTC()
	t.Abbreviation = domain.DeriveAbbreviation(t.Name)
	t.CreatedAt, t.UpdatedAt = now, now

	next := append(append([]domain.DocumentType(nil), types...), *t)
	return s.writeAll(ctx,
		bucketWrite{bucket: BucketDocumentTypes, v: next},
		bucketWrite{bucket: BucketDocumentTypeSeq, v: seq},
	)
}

func (s *Store) UpdateDocumentType(ctx context.Context, t *domain.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	types, err := s.documentTypes(ctx)
	if err != nil {
		return err
	}
	next := append([]domain.DocumentType(nil), types...)
	for i := range next {
		if next[i].ID != t.ID {
			continue
		}
		next[i].Name = t.Name
		next[i].Abbreviation = domain.DeriveAbbreviation(t.Name)
		next[i].UpdatedAt = s.now().UTC()
		t.Abbreviation = next[i].Abbreviation
		return s.write(ctx, BucketDocumentTypes, next)
	}
	return repo.ErrNotFound
}

func (s *Store) DeleteDocumentType(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	types, err := s.documentTypes(ctx)
	if err != nil {
		return err
	}
	next := make([]domain.DocumentType, 0, len(types))
	found := false
	for _, t := range types {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return repo.ErrNotFound
	}
	seq, err := s.typeSeq(ctx, types)
	if err != nil {
		return err
	}
	return s.writeAll(ctx,
		bucketWrite{bucket: BucketDocumentTypes, v: next},
		bucketWrite{bucket: BucketDocumentTypeSeq, v: seq},
	)
}

// DocumentTypesStats returns the type count and the latest type update.
func (s *Store) DocumentTypesStats(ctx context.Context) (int64, *time.Time, error) {
	types, err := s.documentTypes(ctx)
	if err != nil {
		return 0, nil, err
	}
	var latest time.Time
	for _, t := range types {
		if t.UpdatedAt.After(latest) {
			latest = t.UpdatedAt
		}
	}
	if len(types) == 0 {
		return 0, nil, nil
	}
	return int64(len(types)), &latest, nil
}
