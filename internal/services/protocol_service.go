// Package services – ProtocolService
//
// This file implements the ProtocolService, which owns the protocol lifecycle:
// sequential number allocation on create, edits of the mutable fields,
// archiving, soft deletion, and the list/query and dashboard views.
//
// Allocation is serialized by an in-process writer lock and backed by the
// store's uniqueness guarantee: a duplicate-number write is treated as a
// conflict and the next number is recomputed, up to MaxAttempts times. A failed
// scan of the issued numbers is reported as ErrAllocationUnavailable; no number
// is ever derived from the wall clock.
//
// Observability: all public methods are OpenTelemetry-instrumented; corrupt
// stored numbers are logged and counted in protocol_data_corruption_total.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/protocolnum"
	"github.com/tbourn/go-protocol-backend/internal/repo"
	"github.com/tbourn/go-protocol-backend/internal/search"
)

// Field limits enforced on create and edit.
const (
	maxShopNumberLen   = 64
	maxDeliveredByLen  = 255
	maxObservationsLen = 4000
)

// ProtocolService provides protocol operations on top of a Store.
type ProtocolService struct {
	// Store is the persistence backend.
	Store Store

	// Prefix is the fixed leading segment of every protocol number.
	Prefix string
	// MaxAttempts bounds allocation retries after a number conflict.
	MaxAttempts int
	// StoreTimeout bounds each store round trip; zero disables the deadline.
	StoreTimeout time.Duration
	// ListMax caps how many records a query loads.
	ListMax int
	// Location is the calendar used for the allocation year, day filters, and
	// the "today" statistic.
	Location *time.Location
	// ActivityEnabled toggles the audit trail.
	ActivityEnabled bool
	// Now is the clock; tests replace it.
	Now func() time.Time

	mu sync.Mutex
}

// NewProtocolService constructs a ProtocolService with defaults.
func NewProtocolService(store Store) *ProtocolService {
	return &ProtocolService{
		Store:           store,
		Prefix:          protocolnum.DefaultPrefix,
		MaxAttempts:     5,
		StoreTimeout:    5 * time.Second,
		ListMax:         5000,
		Location:        time.Local,
		ActivityEnabled: true,
		Now:             time.Now,
	}
}

// CreateInput carries the caller-supplied fields of a new protocol.
type CreateInput struct {
	ShopNumber     string
	DeliveredBy    string
	DocumentTypeID uint
	Quantity       int
	Observations   string
	UserID         string
}

// UpdateInput carries an edit. ProtocolNumber and CreatedAt are only set
// when the client echoed them back; any change to them is rejected.
type UpdateInput struct {
	ShopNumber     string
	DeliveredBy    string
	DocumentTypeID uint
	Quantity       int
	Observations   string
	UserID         string

	ProtocolNumber *string
	CreatedAt      *int64
}

// ProtocolView is a protocol decorated with its document type.
type ProtocolView struct {
	domain.Protocol
	DocumentTypeName         string `json:"document_type_name"`
	DocumentTypeAbbreviation string `json:"document_type_abbreviation"`
}

// ProtocolPage is a page of decorated protocols.
type ProtocolPage struct {
	Items      []ProtocolView `json:"items"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	HasNext    bool           `json:"has_next"`
}

// Create validates in, allocates the next number for the current year, and
// persists the protocol.
func (s *ProtocolService) Create(ctx context.Context, in CreateInput) (*domain.Protocol, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("user.id", in.UserID),
			attribute.String("shop.number", in.ShopNumber),
		),
	)
	defer span.End()

	in.ShopNumber = strings.TrimSpace(in.ShopNumber)
	in.DeliveredBy = strings.TrimSpace(in.DeliveredBy)
	in.Observations = strings.TrimSpace(in.Observations)
	if err := validateFields(in.ShopNumber, in.DeliveredBy, in.DocumentTypeID, in.Quantity, in.Observations); err != nil {
		return nil, err
	}
	if err := s.requireDocumentType(ctx, in.DocumentTypeID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	year := now.Year()
	lg := loggerFrom(ctx)

	for attempt := 1; attempt <= s.maxAttempts(); attempt++ {
		number, err := s.nextNumber(ctx, year)
		if err != nil {
			allocationAttempts.WithLabelValues("unavailable").Inc()
			span.RecordError(err)
			return nil, err
		}

		p := &domain.Protocol{
			Number:         number,
			Year:           year,
			ShopNumber:     in.ShopNumber,
			DeliveredBy:    in.DeliveredBy,
			DocumentTypeID: in.DocumentTypeID,
			Quantity:       in.Quantity,
			Observations:   in.Observations,
			Status:         domain.StatusActive,
			CreatedBy:      in.UserID,
			CreatedAt:      now.Unix(),
		}
		err = roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
			return s.Store.CreateProtocol(ctx, p)
		})
		switch {
		case err == nil:
			allocationAttempts.WithLabelValues("ok").Inc()
			span.SetAttributes(attribute.String("protocol.number", number), attribute.Int("attempts", attempt))
			s.record(ctx, domain.ActivityLog{
				Action:         "Protocol " + number + " created",
				Type:           domain.ActivityCreate,
				Details:        "shop " + p.ShopNumber + ", delivered by " + p.DeliveredBy,
				ProtocolNumber: number,
				UserID:         in.UserID,
			})
			return p, nil
		case errors.Is(err, repo.ErrDuplicate):
			allocationAttempts.WithLabelValues("conflict").Inc()
			lg.Warn().Str("protocol_number", number).Int("attempt", attempt).Msg("protocol number taken, recomputing")
		default:
			allocationAttempts.WithLabelValues("error").Inc()
			span.RecordError(err)
			return nil, storeErr(err, nil)
		}
	}
	span.RecordError(ErrAllocationConflict)
	return nil, ErrAllocationConflict
}

// AllocateProtocolNumber returns the number the next create in year would
// receive, without writing. A year <= 0 means the current year.
func (s *ProtocolService) AllocateProtocolNumber(ctx context.Context, year int) (string, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "AllocateProtocolNumber",
		trace.WithAttributes(attribute.Int("year", year)),
	)
	defer span.End()

	if year <= 0 {
		year = s.now().Year()
	}
	if year < 1000 || year > 9999 {
		return "", invalid("year", "must have four digits")
	}
	return s.nextNumber(ctx, year)
}

// nextNumber scans the issued numbers for year and computes the successor.
func (s *ProtocolService) nextNumber(ctx context.Context, year int) (string, error) {
	var existing []string
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		existing, err = s.Store.NumbersForYear(ctx, protocolnum.YearPrefix(s.prefix(), year))
		return err
	})
	if err != nil {
		if errors.Is(err, ErrStoreTimeout) {
			return "", err
		}
		return "", wrap(ErrAllocationUnavailable, err)
	}

	next, corrupt, err := protocolnum.Next(s.prefix(), year, existing)
	if len(corrupt) > 0 {
		corruptionTotal.WithLabelValues("protocol_number").Add(float64(len(corrupt)))
		loggerFrom(ctx).Warn().Strs("numbers", corrupt).Int("year", year).Msg("unparseable protocol numbers ignored by allocator")
	}
	if err != nil {
		return "", wrap(ErrAllocationUnavailable, err)
	}
	return next, nil
}

// Get returns one protocol decorated with its document type.
func (s *ProtocolService) Get(ctx context.Context, id string) (*ProtocolView, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("protocol.id", id)))
	defer span.End()

	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, []domain.Protocol{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ProtocolService) get(ctx context.Context, id string) (*domain.Protocol, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProtocolNotFound
	}
	var p *domain.Protocol
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		p, err = s.Store.GetProtocol(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, ErrProtocolNotFound)
	}
	return p, nil
}

// Update replaces the mutable fields of a protocol. The number, creation
// time, creator, and status are left untouched.
func (s *ProtocolService) Update(ctx context.Context, id string, in UpdateInput) (*domain.Protocol, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("protocol.id", id),
			attribute.String("user.id", in.UserID),
		),
	)
	defer span.End()

	in.ShopNumber = strings.TrimSpace(in.ShopNumber)
	in.DeliveredBy = strings.TrimSpace(in.DeliveredBy)
	in.Observations = strings.TrimSpace(in.Observations)
	if err := validateFields(in.ShopNumber, in.DeliveredBy, in.DocumentTypeID, in.Quantity, in.Observations); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ProtocolNumber != nil && *in.ProtocolNumber != p.Number {
		return nil, wrap(ErrImmutableField, errors.New("protocol_number"))
	}
	if in.CreatedAt != nil && *in.CreatedAt != p.CreatedAt {
		return nil, wrap(ErrImmutableField, errors.New("created_at"))
	}
	if in.DocumentTypeID != p.DocumentTypeID {
		if err := s.requireDocumentType(ctx, in.DocumentTypeID); err != nil {
			return nil, err
		}
	}

	p.ShopNumber = in.ShopNumber
	p.DeliveredBy = in.DeliveredBy
	p.DocumentTypeID = in.DocumentTypeID
	p.Quantity = in.Quantity
	p.Observations = in.Observations
	p.UpdatedBy = in.UserID
	if err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.UpdateProtocol(ctx, p)
	}); err != nil {
		span.RecordError(err)
		return nil, storeErr(err, ErrProtocolNotFound)
	}

	s.record(ctx, domain.ActivityLog{
		Action:         "Protocol " + p.Number + " edited",
		Type:           domain.ActivityEdit,
		ProtocolNumber: p.Number,
		UserID:         in.UserID,
	})
	return p, nil
}

// Archive marks a protocol archived. Archiving an archived protocol is a
// no-op that returns the stored record.
func (s *ProtocolService) Archive(ctx context.Context, id, userID string) (*domain.Protocol, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Archive",
		trace.WithAttributes(
			attribute.String("protocol.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.EffectiveStatus() == domain.StatusArchived {
		return p, nil
	}

	at := s.now().Unix()
	p.Status = domain.StatusArchived
	p.ArchivedBy = userID
	p.ArchivedAt = &at
	if err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.UpdateProtocol(ctx, p)
	}); err != nil {
		span.RecordError(err)
		return nil, storeErr(err, ErrProtocolNotFound)
	}

	s.record(ctx, domain.ActivityLog{
		Action:         "Protocol " + p.Number + " archived",
		Type:           domain.ActivityArchive,
		ProtocolNumber: p.Number,
		UserID:         userID,
	})
	return p, nil
}

// Delete soft-deletes a protocol. Its number stays reserved.
func (s *ProtocolService) Delete(ctx context.Context, id, userID string) error {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("protocol.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		return s.Store.DeleteProtocol(ctx, id)
	}); err != nil {
		span.RecordError(err)
		return storeErr(err, ErrProtocolNotFound)
	}

	s.record(ctx, domain.ActivityLog{
		Action:         "Protocol " + p.Number + " deleted",
		Type:           domain.ActivityDelete,
		ProtocolNumber: p.Number,
		UserID:         userID,
	})
	return nil
}

// Query loads at most ListMax records and applies q to them.
func (s *ProtocolService) Query(ctx context.Context, q search.Query) (*ProtocolPage, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Query",
		trace.WithAttributes(
			attribute.String("query", q.Text),
			attribute.String("mode", string(q.Mode)),
			attribute.Int("page", q.Page),
			attribute.Int("page_size", q.PageSize),
		),
	)
	defer span.End()

	if err := q.Validate(); err != nil {
		return nil, invalid("query", err.Error())
	}
	if q.Location == nil {
		q.Location = s.location()
	}

	records, err := s.list(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	page := search.Apply(records, q)
	items, err := s.decorate(ctx, page.Items)
	if err != nil {
		return nil, err
	}
	return &ProtocolPage{
		Items:      items,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
		HasNext:    page.HasNext,
	}, nil
}

// Stats summarizes the live protocols for the dashboard.
func (s *ProtocolService) Stats(ctx context.Context) (search.Stats, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Stats")
	defer span.End()

	records, err := s.list(ctx)
	if err != nil {
		return search.Stats{}, err
	}
	return search.Summarize(records, s.now(), s.location()), nil
}

// Fingerprint summarizes the rows a protocol list response is built from.
// Type names are embedded in every item, so types count too.
type Fingerprint struct {
	Protocols        int64
	ProtocolsUpdated *time.Time
	Types            int64
	TypesUpdated     *time.Time
}

// Fingerprint returns the current Fingerprint, used for HTTP cache validators.
func (s *ProtocolService) Fingerprint(ctx context.Context) (Fingerprint, error) {
	var fp Fingerprint
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		if fp.Protocols, fp.ProtocolsUpdated, err = s.Store.ProtocolsStats(ctx); err != nil {
			return err
		}
		fp.Types, fp.TypesUpdated, err = s.Store.DocumentTypesStats(ctx)
		return err
	})
	if err != nil {
		return Fingerprint{}, storeErr(err, nil)
	}
	return fp, nil
}

func (s *ProtocolService) list(ctx context.Context) ([]domain.Protocol, error) {
	var records []domain.Protocol
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		records, err = s.Store.ListProtocols(ctx, s.ListMax)
		return err
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return records, nil
}

// decorate resolves document type names. Missing types render as
// domain.UnknownTypeName.
func (s *ProtocolService) decorate(ctx context.Context, records []domain.Protocol) ([]ProtocolView, error) {
	out := make([]ProtocolView, len(records))
	if len(records) == 0 {
		return out, nil
	}
	var types []domain.DocumentType
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		var err error
		types, err = s.Store.ListDocumentTypes(ctx)
		return err
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	byID := make(map[uint]domain.DocumentType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}
	for i, r := range records {
		r.Status = r.EffectiveStatus()
		v := ProtocolView{
			Protocol:                 r,
			DocumentTypeName:         domain.UnknownTypeName,
			DocumentTypeAbbreviation: domain.UnknownTypeAbbreviation,
		}
		if t, ok := byID[r.DocumentTypeID]; ok {
			v.DocumentTypeName = t.Name
			v.DocumentTypeAbbreviation = t.Abbreviation
		}
		out[i] = v
	}
	return out, nil
}

func (s *ProtocolService) requireDocumentType(ctx context.Context, id uint) error {
	err := roundTrip(ctx, s.StoreTimeout, func(ctx context.Context) error {
		_, err := s.Store.GetDocumentType(ctx, id)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return invalid("document_type_id", "unknown document type")
	}
	return storeErr(err, nil)
}

func (s *ProtocolService) record(ctx context.Context, entry domain.ActivityLog) {
	if !s.ActivityEnabled {
		return
	}
	entry.CreatedAt = s.now().Unix()
	recordActivity(ctx, s.Store, s.StoreTimeout, entry)
}

func (s *ProtocolService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.location())
}

func (s *ProtocolService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

func (s *ProtocolService) prefix() string {
	if s.Prefix != "" {
		return s.Prefix
	}
	return protocolnum.DefaultPrefix
}

func (s *ProtocolService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return 1
}

// validateFields checks the caller-supplied protocol fields. Inputs are
// expected to be trimmed.
func validateFields(shop, deliveredBy string, documentTypeID uint, quantity int, observations string) error {
	switch {
	case shop == "":
		return invalid("shop_number", "is required")
	case utf8.RuneCountInString(shop) > maxShopNumberLen:
		return invalid("shop_number", "is too long")
	case deliveredBy == "":
		return invalid("delivered_by", "is required")
	case utf8.RuneCountInString(deliveredBy) > maxDeliveredByLen:
		return invalid("delivered_by", "is too long")
	case documentTypeID == 0:
		return invalid("document_type_id", "is required")
	case quantity < 1:
		return invalid("quantity", "must be at least 1")
	case utf8.RuneCountInString(observations) > maxObservationsLen:
		return invalid("observations", "is too long")
	}
	return nil
}
