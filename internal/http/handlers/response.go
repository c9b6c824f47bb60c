// Package handlers provides the Gin handlers of the registry API.
//
// Every failure is written as an ErrorResponse with a stable code from
// errors.go. Validation failures also name the offending field so forms can
// highlight it:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "bad_request",
//	  "field": "quantity",
//	  "message": "quantity: must be at least 1"
//	}
//
// Creates answer 201 with a Location header pointing at the new resource.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Echo of X-Request-ID, for matching client reports to server logs
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"bad_request"`
	// Input field that failed validation, when there is one
	Field string `json:"field,omitempty" example:"shop_number"`
	// Human-readable message
	Message string `json:"message" example:"shop_number: required"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	failField(c, status, code, "", msg)
}

// failField is fail for a single invalid input field.
func failField(c *gin.Context, status int, code, field, msg string) {
	reqID := middleware.RequestIDFrom(c)
	if reqID == "" {
		reqID = c.Writer.Header().Get("X-Request-ID")
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("route", c.FullPath()).
			Msg(msg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Field:     field,
		Message:   msg,
	})
}

// Fail is fail for the router's fallback handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// created answers 201 with Location set to the collection path plus id.
func created(c *gin.Context, id string, body any) {
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+id)
	c.JSON(http.StatusCreated, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
