// Package handlers exposes the registry's REST endpoints.
//
// Handlers are transport-thin: they parse and bound input, call application
// services, and translate results into HTTP responses (including ETag-based
// conditional responses and idempotent replays). Business rules live in the
// services package.
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/backup"
	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/http/middleware"
	"github.com/tbourn/go-protocol-backend/internal/search"
	"github.com/tbourn/go-protocol-backend/internal/services"
	"github.com/tbourn/go-protocol-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProtocolService defines the protocol lifecycle consumed by the handlers.
type ProtocolService interface {
	Create(ctx context.Context, in services.CreateInput) (*domain.Protocol, error)
	AllocateProtocolNumber(ctx context.Context, year int) (string, error)
	Get(ctx context.Context, id string) (*services.ProtocolView, error)
	Update(ctx context.Context, id string, in services.UpdateInput) (*domain.Protocol, error)
	Archive(ctx context.Context, id, userID string) (*domain.Protocol, error)
	Delete(ctx context.Context, id, userID string) error
	Query(ctx context.Context, q search.Query) (*services.ProtocolPage, error)
	Stats(ctx context.Context) (search.Stats, error)
	// Fingerprint summarizes the rows behind list responses.
	Fingerprint(ctx context.Context) (services.Fingerprint, error)
}

// DocumentTypeService manages the document type catalog.
type DocumentTypeService interface {
	List(ctx context.Context) ([]domain.DocumentType, error)
	Create(ctx context.Context, userID, name string) (*domain.DocumentType, error)
	Rename(ctx context.Context, userID string, id uint, name string) (*domain.DocumentType, error)
	Delete(ctx context.Context, userID string, id uint) error
	Abbreviation(name string) string
}

// ActivityService reads and prunes the audit trail.
type ActivityService interface {
	ListPage(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// TransferService exports, imports and backs up the registry.
type TransferService interface {
	Export(ctx context.Context) (*services.Bundle, error)
	Import(ctx context.Context, userID string, b services.ImportBundle) (*services.ImportResult, error)
	Backup(ctx context.Context, userID string) (*backup.Info, error)
	Backups(ctx context.Context) ([]backup.Info, error)
}

// IdempotencyStore remembers which resource a (user, scope, key) produced.
// Find returns ok=false when nothing valid is stored.
type IdempotencyStore interface {
	Find(ctx context.Context, userID, scope, key string, now time.Time) (resourceID string, status int, ok bool)
	Remember(ctx context.Context, userID, scope, key, resourceID string, status int) error
}

//
// Handler wiring
//

// Options tunes request parsing.
type Options struct {
	// DefaultPageSize applies when page_size is absent. Defaults to 20.
	DefaultPageSize int
	// MaxPageSize caps page_size. Defaults to 100.
	MaxPageSize int
}

// Handlers groups the registry endpoints.
type Handlers struct {
	protocols ProtocolService
	types     DocumentTypeService
	activity  ActivityService
	transfer  TransferService
	idem      IdempotencyStore
	opts      Options
}

// New constructs a Handlers instance. idem may be nil, which disables
// Idempotency-Key replays.
func New(protocols ProtocolService, types DocumentTypeService, activity ActivityService, transfer TransferService, idem IdempotencyStore, opts Options) *Handlers {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.DefaultPageSize > opts.MaxPageSize {
		opts.DefaultPageSize = opts.MaxPageSize
	}
	return &Handlers{
		protocols: protocols,
		types:     types,
		activity:  activity,
		transfer:  transfer,
		idem:      idem,
		opts:      opts,
	}
}

func userID(c *gin.Context) string { return middleware.UserIDFrom(c) }

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(int(total), pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Helpers
//

// clampPagination parses page and page_size, applying defaults and caps.
func (h *Handlers) clampPagination(c *gin.Context) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), h.opts.DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > h.opts.MaxPageSize {
		pageSize = h.opts.MaxPageSize
	}
	return
}

// parseUintParam reads a positive integer path parameter.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Register mounts every endpoint on api (typically the /api/v1 group).
func (h *Handlers) Register(api gin.IRoutes) {
	// Protocols
	api.POST("/protocols", h.CreateProtocol)
	api.GET("/protocols", h.ListProtocols)
	api.GET("/protocols/next-number", h.NextProtocolNumber)
	api.GET("/protocols/stats", h.ProtocolStats)
	api.GET("/protocols/:id", h.GetProtocol)
	api.PUT("/protocols/:id", h.UpdateProtocol)
	api.POST("/protocols/:id/archive", h.ArchiveProtocol)
	api.DELETE("/protocols/:id", h.DeleteProtocol)

	// Document types
	api.GET("/document-types", h.ListDocumentTypes)
	api.POST("/document-types", h.CreateDocumentType)
	api.GET("/document-types/abbreviation", h.Abbreviation)
	api.PUT("/document-types/:id", h.RenameDocumentType)
	api.DELETE("/document-types/:id", h.DeleteDocumentType)

	// Activity
	api.GET("/activity", h.ListActivity)
	api.DELETE("/activity", h.ClearActivity)
	api.DELETE("/activity/:id", h.DeleteActivity)

	// Transfer
	api.GET("/export", h.Export)
	api.POST("/import", h.Import)
	api.POST("/backups", h.CreateBackup)
	api.GET("/backups", h.ListBackups)
}
