// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics; the
// domain-specific ones name registry failures that a status alone cannot
// convey (a lost numbering race, an immutable field, a disabled backup sink).
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "allocation_conflict",
//	  "message": "could not allocate a protocol number, retry"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeTimeout          = "timeout"

	// Domain-specific:
	ErrCodeAllocationConflict = "allocation_conflict"
	ErrCodeImmutableField     = "immutable_field"
	ErrCodeBackupsDisabled    = "backups_disabled"
)

// failService maps a service error to its HTTP status and code. Server-side
// failures are attached to the gin context so the access log carries the
// cause while the client only sees a generic message.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrImmutableField):
		fail(c, http.StatusBadRequest, ErrCodeImmutableField, err.Error())
	case errors.Is(err, services.ErrValidation):
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			failField(c, http.StatusBadRequest, ErrCodeBadRequest, ve.Field, err.Error())
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrProtocolNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "protocol not found")
	case errors.Is(err, services.ErrDocumentTypeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "document type not found")
	case errors.Is(err, services.ErrActivityNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "activity entry not found")
	case errors.Is(err, services.ErrAllocationConflict):
		_ = c.Error(err)
		fail(c, http.StatusConflict, ErrCodeAllocationConflict, "could not allocate a protocol number, retry")
	case errors.Is(err, services.ErrDocumentTypeExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "document type already exists")
	case errors.Is(err, services.ErrBackupDisabled):
		fail(c, http.StatusNotImplemented, ErrCodeBackupsDisabled, "backups are not configured")
	case errors.Is(err, services.ErrAllocationUnavailable), errors.Is(err, services.ErrBackendUnavailable):
		_ = c.Error(err)
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage backend unavailable")
	case errors.Is(err, services.ErrStoreTimeout):
		_ = c.Error(err)
		fail(c, http.StatusGatewayTimeout, ErrCodeTimeout, "storage backend timed out")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
