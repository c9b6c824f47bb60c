// Package services – ActivityService
//
// This file implements the ActivityService, which exposes the audit trail of
// protocol and settings changes. Entries are appended by the other services
// on a best-effort basis: a failed append is logged and never fails the
// operation that produced it.
package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// ActivityService lists and prunes activity log entries.
type ActivityService struct {
	Store        ActivityStore
	StoreTimeout time.Duration
}

// NewActivityService constructs an ActivityService.
func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{Store: store, StoreTimeout: 5 * time.Second}
}

// ListPage returns a page of entries, newest first, and the total count.
// Invalid page values fall back to page 1 and 20 items.
func (s *ActivityService) ListPage(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error) {
	tr := otel.Tracer("services/ActivityService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var (
		items []domain.ActivityLog
		total int64
	)
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		items, total, err = s.Store.ListActivity(ctx, offset, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, storeErr(err, nil)
	}
	if items == nil {
		items = []domain.ActivityLog{}
	}
	return items, total, nil
}

// Delete removes one entry.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrActivityNotFound
	}
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.DeleteActivity(ctx, id)
	})
	return storeErr(err, ErrActivityNotFound)
}

// Clear removes every entry.
func (s *ActivityService) Clear(ctx context.Context) error {
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.ClearActivity(ctx)
	})
	return storeErr(err, nil)
}

// recordActivity appends entry, logging failures instead of returning them.
func recordActivity(ctx context.Context, store ActivityStore, timeout time.Duration, entry domain.ActivityLog) {
	if store == nil {
		return
	}
	if entry.UserID == "" {
		entry.UserID = "system"
	}
	err := roundTrip(ctx, timeout, func(ctx context.Context) error {
		return store.AppendActivity(ctx, &entry)
	})
	if err != nil {
		loggerFrom(ctx).Warn().Err(err).Str("type", entry.Type).Msg("activity log append failed")
	}
}
