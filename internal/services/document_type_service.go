// Package services – DocumentTypeService
//
// This file implements the DocumentTypeService, which manages the taxonomy of
// delivered documents. Names are normalized and the abbreviation is always
// derived from the name, never supplied by the caller.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

const maxDocumentTypeNameLen = 255

// DocumentTypeService provides document type operations.
type DocumentTypeService struct {
	Store           Store
	StoreTimeout    time.Duration
	ActivityEnabled bool
	Now             func() time.Time
}

// NewDocumentTypeService constructs a DocumentTypeService with defaults.
func NewDocumentTypeService(store Store) *DocumentTypeService {
	return &DocumentTypeService{
		Store:           store,
		StoreTimeout:    5 * time.Second,
		ActivityEnabled: true,
		Now:             time.Now,
	}
}

// List returns every document type ordered by id.
func (s *DocumentTypeService) List(ctx context.Context) ([]domain.DocumentType, error) {
	tr := otel.Tracer("services/DocumentTypeService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	var out []domain.DocumentType
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		out, err = s.Store.ListDocumentTypes(ctx)
		return err
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if out == nil {
		out = []domain.DocumentType{}
	}
	return out, nil
}

// Create adds a document type named name.
func (s *DocumentTypeService) Create(ctx context.Context, userID, name string) (*domain.DocumentType, error) {
	tr := otel.Tracer("services/DocumentTypeService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	name, err := normalizeTypeName(name)
	if err != nil {
		return nil, err
	}
	t := &domain.DocumentType{Name: name, Abbreviation: domain.DeriveAbbreviation(name)}
	err = roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.CreateDocumentType(ctx, t)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDocumentTypeExists
	}
	if err != nil {
		span.RecordError(err)
		return nil, storeErr(err, nil)
	}

	s.record(ctx, userID, "Document type "+t.Name+" added")
	return t, nil
}

// Rename changes the name of a document type and re-derives its abbreviation.
func (s *DocumentTypeService) Rename(ctx context.Context, userID string, id uint, name string) (*domain.DocumentType, error) {
	tr := otel.Tracer("services/DocumentTypeService")
	ctx, span := tr.Start(ctx, "Rename",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("document_type.id", int(id)),
		),
	)
	defer span.End()

	name, err := normalizeTypeName(name)
	if err != nil {
		return nil, err
	}
	t := &domain.DocumentType{ID: id, Name: name}
	err = roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.UpdateDocumentType(ctx, t)
	})
	if err != nil {
		return nil, storeErr(err, ErrDocumentTypeNotFound)
	}

	var out *domain.DocumentType
	err = roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		out, err = s.Store.GetDocumentType(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, ErrDocumentTypeNotFound)
	}

	s.record(ctx, userID, "Document type "+out.Name+" renamed")
	return out, nil
}

// Delete removes a document type. Protocols that reference it keep the id and
// render as an unknown type.
func (s *DocumentTypeService) Delete(ctx context.Context, userID string, id uint) error {
	tr := otel.Tracer("services/DocumentTypeService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int("document_type.id", int(id))),
	)
	defer span.End()

	var t *domain.DocumentType
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		if t, err = s.Store.GetDocumentType(ctx, id); err != nil {
			return err
		}
		return s.Store.DeleteDocumentType(ctx, id)
	})
	if err != nil {
		return storeErr(err, ErrDocumentTypeNotFound)
	}
	s.record(ctx, userID, "Document type "+t.Name+" removed")
	return nil
}

// Abbreviation previews the abbreviation derived for name.
func (s *DocumentTypeService) Abbreviation(name string) string {
	return domain.DeriveAbbreviation(name)
}

func (s *DocumentTypeService) record(ctx context.Context, userID, action string) {
	if !s.ActivityEnabled {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	recordActivity(ctx, s.Store, s.StoreTimeout, domain.ActivityLog{
		Action:    action,
		Type:      domain.ActivitySettings,
		UserID:    userID,
		CreatedAt: now().Unix(),
	})
}

// normalizeTypeName trims and collapses whitespace.
func normalizeTypeName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	switch {
	case name == "":
		return "", invalid("name", "is required")
	case utf8.RuneCountInString(name) > maxDocumentTypeNameLen:
		return "", invalid("name", "is too long")
	}
	return name, nil
}
