// Package services – TransferService
//
// This file implements export, import, and backup of the registry. An export
// bundle carries every live protocol and document type. Import is additive:
// protocol numbers that already exist are skipped, document types are matched
// by case-folded name, and stored timestamps in any of the legacy shapes are
// normalized to epoch seconds.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/tbourn/go-protocol-backend/internal/backup"
	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/protocolnum"
	"github.com/tbourn/go-protocol-backend/internal/repo"
	"github.com/tbourn/go-protocol-backend/internal/utils"
)

// BundleVersion is written into every export.
const BundleVersion = "1.0"

// Bundle is the export format.
type Bundle struct {
	Protocols     []domain.Protocol     `json:"protocols"`
	DocumentTypes []domain.DocumentType `json:"document_types"`
	ExportDate    time.Time             `json:"export_date"`
	Version       string                `json:"version"`
}

// ImportBundle is the import format. It accepts exports of this service and
// older snapshots whose created_at is an object, a string, or a number.
type ImportBundle struct {
	Protocols     []ImportedProtocol    `json:"protocols"`
	DocumentTypes []domain.DocumentType `json:"document_types"`
	Version       string                `json:"version"`
}

// ImportedProtocol is one protocol of an ImportBundle.
type ImportedProtocol struct {
	Number         string          `json:"protocol_number"`
	ShopNumber     string          `json:"shop_number"`
	DeliveredBy    string          `json:"delivered_by"`
	DocumentTypeID uint            `json:"document_type_id"`
	Quantity       int             `json:"quantity"`
	Observations   string          `json:"observations"`
	Status         string          `json:"status"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      json.RawMessage `json:"created_at"`
}

// ImportResult reports what an import did.
type ImportResult struct {
	Imported             int      `json:"imported"`
	Skipped              int      `json:"skipped"`
	DocumentTypesCreated int      `json:"document_types_created"`
	Warnings             []string `json:"warnings,omitempty"`
}

// TransferService exports, imports, and backs up the registry.
type TransferService struct {
	// Protocols provides the store, clock, and writer lock shared with
	// protocol creation.
	Protocols *ProtocolService
	// Sink receives backups; nil disables them.
	Sink backup.Sink
}

// NewTransferService constructs a TransferService.
func NewTransferService(ps *ProtocolService, sink backup.Sink) *TransferService {
	return &TransferService{Protocols: ps, Sink: sink}
}

// Export returns every live protocol and document type.
func (s *TransferService) Export(ctx context.Context) (*Bundle, error) {
	tr := otel.Tracer("services/TransferService")
	ctx, span := tr.Start(ctx, "Export")
	defer span.End()

	ps := s.Protocols
	var (
		protocols []domain.Protocol
		types     []domain.DocumentType
	)
	err := roundTrip(ctx, ps.StoreTimeout, func(ctx context.Context) error {
		var err error
		if protocols, err = ps.Store.ListProtocols(ctx, 0); err != nil {
			return err
		}
		types, err = ps.Store.ListDocumentTypes(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeErr(err, nil)
	}
	if protocols == nil {
		protocols = []domain.Protocol{}
	}
	if types == nil {
		types = []domain.DocumentType{}
	}
	for i := range protocols {
		protocols[i].Status = protocols[i].EffectiveStatus()
	}
	span.SetAttributes(attribute.Int("protocols", len(protocols)))
	return &Bundle{
		Protocols:     protocols,
		DocumentTypes: types,
		ExportDate:    ps.now().UTC(),
		Version:       BundleVersion,
	}, nil
}

// Import adds the bundle's document types and protocols. Records that cannot
// be imported are skipped with a warning; a store failure aborts the import
// and returns the partial result alongside the error.
func (s *TransferService) Import(ctx context.Context, userID string, b ImportBundle) (*ImportResult, error) {
	tr := otel.Tracer("services/TransferService")
	ctx, span := tr.Start(ctx, "Import",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("protocols", len(b.Protocols)),
			attribute.Int("document_types", len(b.DocumentTypes)),
		),
	)
	defer span.End()

	if b.Version != "" && !strings.HasPrefix(b.Version, "1.") {
		return nil, invalid("version", "unsupported bundle version "+b.Version)
	}

	ps := s.Protocols
	ps.mu.Lock()
	defer ps.mu.Unlock()

	res := &ImportResult{}
	typeIDs, err := s.importDocumentTypes(ctx, b.DocumentTypes, res)
	if err != nil {
		span.RecordError(err)
		return res, err
	}

	lg := loggerFrom(ctx)
	for i, in := range b.Protocols {
		p, warn := s.toProtocol(in, typeIDs)
		if warn != "" {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("protocols[%d]: %s", i, warn))
			continue
		}
		if p.CreatedAt == domain.UnknownTimestamp && len(in.CreatedAt) > 0 && string(in.CreatedAt) != "null" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("protocols[%d]: unreadable created_at", i))
		}

		err := roundTrip(ctx, ps.StoreTimeout, func(ctx context.Context) error {
			return ps.Store.CreateProtocol(ctx, p)
		})
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, repo.ErrDuplicate):
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("protocols[%d]: %s already exists", i, p.Number))
		default:
			span.RecordError(err)
			return res, storeErr(err, nil)
		}
	}

	lg.Info().
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("document_types_created", res.DocumentTypesCreated).
		Msg("import finished")

	if ps.ActivityEnabled {
		recordActivity(ctx, ps.Store, ps.StoreTimeout, domain.ActivityLog{
			Action:    fmt.Sprintf("Imported %d protocols", res.Imported),
			Type:      domain.ActivityImport,
			Details:   fmt.Sprintf("%d skipped, %d document types added", res.Skipped, res.DocumentTypesCreated),
			UserID:    userID,
			CreatedAt: ps.now().Unix(),
		})
	}
	return res, nil
}

// importDocumentTypes matches bundle types to stored ones by case-folded name
// and creates the missing ones. It returns a map from bundle id to stored id.
func (s *TransferService) importDocumentTypes(ctx context.Context, in []domain.DocumentType, res *ImportResult) (map[uint]uint, error) {
	ps := s.Protocols
	var existing []domain.DocumentType
	err := roundTrip(ctx, ps.StoreTimeout, func(ctx context.Context) error {
		var err error
		existing, err = ps.Store.ListDocumentTypes(ctx)
		return err
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}

	fold := cases.Fold()
	byName := make(map[string]uint, len(existing))
	for _, t := range existing {
		byName[fold.String(t.Name)] = t.ID
	}

	ids := make(map[uint]uint, len(in))
	for i, t := range in {
		name, err := normalizeTypeName(t.Name)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("document_types[%d]: %v", i, err))
			continue
		}
		key := fold.String(name)
		if id, ok := byName[key]; ok {
			ids[t.ID] = id
			continue
		}
		nt := &domain.DocumentType{Name: name, Abbreviation: domain.DeriveAbbreviation(name)}
		err = roundTrip(ctx, ps.StoreTimeout, func(ctx context.Context) error {
			return ps.Store.CreateDocumentType(ctx, nt)
		})
		if err != nil {
			return nil, storeErr(err, nil)
		}
		byName[key] = nt.ID
		ids[t.ID] = nt.ID
		res.DocumentTypesCreated++
	}
	return ids, nil
}

// toProtocol converts an imported record. A non-empty warning means the
// record must be skipped.
func (s *TransferService) toProtocol(in ImportedProtocol, typeIDs map[uint]uint) (*domain.Protocol, string) {
	num, err := protocolnum.Parse(strings.TrimSpace(in.Number))
	if err != nil {
		corruptionTotal.WithLabelValues("protocol_number").Inc()
		return nil, fmt.Sprintf("invalid protocol number %q", in.Number)
	}

	typeID := in.DocumentTypeID
	if mapped, ok := typeIDs[typeID]; ok {
		typeID = mapped
	}
	shop := strings.TrimSpace(in.ShopNumber)
	deliveredBy := strings.TrimSpace(in.DeliveredBy)
	observations := strings.TrimSpace(in.Observations)
	if err := validateFields(shop, deliveredBy, typeID, in.Quantity, observations); err != nil {
		return nil, err.Error()
	}

	status := strings.TrimSpace(in.Status)
	switch status {
	case "":
		status = domain.StatusActive
	case domain.StatusActive, domain.StatusArchived:
	default:
		return nil, fmt.Sprintf("unknown status %q", in.Status)
	}

	createdAt, ok := utils.NormalizeTimestamp(in.CreatedAt)
	if !ok {
		corruptionTotal.WithLabelValues("timestamp").Inc()
	}
	createdBy := strings.TrimSpace(in.CreatedBy)
	if createdBy == "" {
		createdBy = "import"
	}

	return &domain.Protocol{
		Number:         num.String(),
		Year:           num.Year,
		ShopNumber:     shop,
		DeliveredBy:    deliveredBy,
		DocumentTypeID: typeID,
		Quantity:       in.Quantity,
		Observations:   observations,
		Status:         status,
		CreatedBy:      createdBy,
		CreatedAt:      createdAt,
	}, ""
}

// Backup writes an export bundle to the configured sink.
func (s *TransferService) Backup(ctx context.Context, userID string) (*backup.Info, error) {
	tr := otel.Tracer("services/TransferService")
	ctx, span := tr.Start(ctx, "Backup", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if s.Sink == nil {
		return nil, ErrBackupDisabled
	}
	b, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	key := backup.KeyFor(b.ExportDate)
	info, err := s.Sink.Put(ctx, key, data)
	if err != nil {
		span.RecordError(err)
		return nil, wrap(ErrBackendUnavailable, err)
	}
	loggerFrom(ctx).Info().
		Str("driver", s.Sink.Driver()).
		Str("key", info.Key).
		Int64("size", info.Size).
		Msg("backup written")
	return &info, nil
}

// Backups lists stored backups.
func (s *TransferService) Backups(ctx context.Context) ([]backup.Info, error) {
	if s.Sink == nil {
		return nil, ErrBackupDisabled
	}
	out, err := s.Sink.List(ctx)
	if err != nil {
		return nil, wrap(ErrBackendUnavailable, err)
	}
	if out == nil {
		out = []backup.Info{}
	}
	return out, nil
}
