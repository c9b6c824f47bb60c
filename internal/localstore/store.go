// Package localstore persists the registry as JSON collections, one row per
// bucket, in an embedded SQLite file. It is the single-node alternative to the
// relational schema in package repo and honours the same error sentinels
// (repo.ErrNotFound, repo.ErrDuplicate).
//
// All writes go through one mutex, so the read-compute-write of protocol
// number uniqueness is atomic within the process. Reads are served by a
// read-through cache that every write invalidates.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-protocol-backend/internal/cache"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

// Bucket names.
const (
	BucketProtocols     = "protocols"
	BucketDocumentTypes = "document_types"
	BucketActivity      = "activity"

	// BucketDocumentTypeSeq holds the highest document type id ever issued.
	// Ids of deleted types are never handed out again.
	BucketDocumentTypeSeq = "document_type_seq"
)

// bucketRow is one persisted collection.
type bucketRow struct {
	Bucket    string    `gorm:"type:varchar(64);primaryKey"`
	Payload   []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (bucketRow) TableName() string { return "local_state" }

// Options tune a Store.
type Options struct {
	CacheSize   int
	CacheTTL    time.Duration
	ActivityMax int
}

// Store is the bucket-backed storage implementation.
type Store struct {
	db          *gorm.DB
	cache       *cache.ReadThrough[string, []byte]
	activityMax int
	now         func() time.Time

	mu sync.Mutex // single writer
}

// Open opens (or creates) the SQLite file at path and returns a Store on it.
func Open(path string, opts Options) (*Store, error) {
	db, err := repo.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return New(db, opts)
}

// New returns a Store on an existing handle, creating the bucket table.
func New(db *gorm.DB, opts Options) (*Store, error) {
	if err := db.AutoMigrate(&bucketRow{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	s := &Store{db: db, activityMax: opts.ActivityMax, now: time.Now}
	s.cache = cache.New[string, []byte]("localstore", opts.CacheSize, opts.CacheTTL, s.loadBucket)
	return s, nil
}

// DB exposes the underlying handle (shared with the idempotency table).
func (s *Store) DB() *gorm.DB { return s.db }

// Invalidate drops every cached bucket so the next read hits the database.
func (s *Store) Invalidate() { s.cache.InvalidateAll() }

func (s *Store) loadBucket(ctx context.Context, bucket string) ([]byte, error) {
	var row bucketRow
	err := s.db.WithContext(ctx).Where("bucket = ?", bucket).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", bucket, err)
	}
	return row.Payload, nil
}

// read decodes a bucket into dst. A missing bucket leaves dst untouched.
func (s *Store) read(ctx context.Context, bucket string, dst any) error {
	payload, err := s.cache.Get(ctx, bucket)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

// bucketWrite is one bucket replacement within writeAll.
type bucketWrite struct {
	bucket string
	v      any
}

// write upserts a bucket and invalidates its cache entry. The caller holds mu.
func (s *Store) write(ctx context.Context, bucket string, v any) error {
	return s.writeAll(ctx, bucketWrite{bucket: bucket, v: v})
}

// writeAll upserts several buckets in one transaction. The caller holds mu.
func (s *Store) writeAll(ctx context.Context, writes ...bucketWrite) error {
	now := s.now().UTC()
	rows := make([]bucketRow, 0, len(writes))
	for _, w := range writes {
		data, err := json.Marshal(w.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", w.bucket, err)
		}
		rows = append(rows, bucketRow{Bucket: w.bucket, Payload: data, UpdatedAt: now})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "bucket"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&rows[i]).Error
			if err != nil {
				return fmt.Errorf("upsert %s: %w", rows[i].Bucket, err)
			}
		}
		return nil
	})
	for _, w := range writes {
		s.cache.Invalidate(w.bucket)
	}
	return err
}
