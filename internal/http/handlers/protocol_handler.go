// Protocol HTTP handlers.
//
// This file exposes REST endpoints for protocol records:
//   - POST   /protocols               (create; allocates the next number)
//   - GET    /protocols               (query, paginated, weak ETag)
//   - GET    /protocols/next-number   (preview of the next number)
//   - GET    /protocols/stats         (dashboard counters)
//   - GET    /protocols/{id}          (detail)
//   - PUT    /protocols/{id}          (edit mutable fields)
//   - POST   /protocols/{id}/archive  (archive)
//   - DELETE /protocols/{id}          (soft delete)
//
// Idempotency:
// Creating a protocol consumes a number. If the client supplies an
// Idempotency-Key and a previous create for (user, route, key) succeeded, the
// handler returns that protocol with `Idempotency-Replayed: true` instead of
// allocating again.
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/http/middleware"
	"github.com/tbourn/go-protocol-backend/internal/search"
	"github.com/tbourn/go-protocol-backend/internal/services"
)

//
// DTOs
//

// CreateProtocolRequest is the JSON payload for logging a delivery.
type CreateProtocolRequest struct {
	ShopNumber     string `json:"shop_number" example:"70"`
	DeliveredBy    string `json:"delivered_by" example:"Irmão João Silva"`
	DocumentTypeID uint   `json:"document_type_id" example:"1"`
	Quantity       int    `json:"quantity" example:"2"`
	Observations   string `json:"observations" example:"Atas de março e abril"`
}

// UpdateProtocolRequest is the JSON payload for editing a protocol.
// protocol_number and created_at may be echoed back unchanged; any other
// value is rejected.
type UpdateProtocolRequest struct {
	ShopNumber     string  `json:"shop_number" example:"70"`
	DeliveredBy    string  `json:"delivered_by" example:"Irmão João Silva"`
	DocumentTypeID uint    `json:"document_type_id" example:"1"`
	Quantity       int     `json:"quantity" example:"3"`
	Observations   string  `json:"observations"`
	ProtocolNumber *string `json:"protocol_number,omitempty" example:"GLESP-2025-001"`
	CreatedAt      *int64  `json:"created_at,omitempty" example:"1741617000"`
}

// NextNumberResponse previews the number the next create would receive.
type NextNumberResponse struct {
	ProtocolNumber string `json:"protocol_number" example:"GLESP-2025-004"`
}

//
// Helpers
//

// protocolID reads and validates the :id path parameter.
func protocolID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "protocol id must be a UUID")
		return "", false
	}
	return id, true
}

// listETag derives a weak validator from the protocol and document type
// fingerprints and the query string, so any write that can change a list body
// or a different page changes it.
func listETag(fp services.Fingerprint, rawQuery string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rawQuery))
	return fmt.Sprintf(`W/"protocols:%d:%d:%d:%d:%08x"`,
		fp.Protocols, unixNano(fp.ProtocolsUpdated), fp.Types, unixNano(fp.TypesUpdated), h.Sum32())
}

func unixNano(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

// parseQuery maps query parameters onto a search.Query. Enum values are
// validated by the service.
func (h *Handlers) parseQuery(c *gin.Context) (search.Query, bool) {
	page, pageSize := h.clampPagination(c)
	q := search.Query{
		Text:     c.Query("q"),
		Mode:     search.Mode(strings.ToLower(strings.TrimSpace(c.Query("mode")))),
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Sort:     search.SortKey(strings.TrimSpace(c.Query("sort"))),
		Order:    search.Order(strings.ToLower(strings.TrimSpace(c.Query("order")))),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("date"); raw != "" {
		d, err := search.ParseDay(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return q, false
		}
		q.Day = &d
	}
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown time zone "+tz)
			return q, false
		}
		q.Location = loc
	}
	return q, true
}

//
// Handlers
//

// CreateProtocol godoc
// @ID          createProtocol
// @Summary     Log a delivery
// @Description Validates the payload, allocates the next sequential number for the current year and stores the protocol.
// @Description Supports idempotency via the Idempotency-Key header (same key → same protocol, no new number).
// @Tags        Protocols
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Acting user"  example(secretaria)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateProtocolRequest  true  "Protocol payload"
//
// @Success     201  {object}  services.ProtocolView
// @Header      201  {string}  Location  "URL of the new protocol"
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Allocation conflict"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Failure     504  {object}  handlers.ErrorResponse  "Storage timeout"
// @Router      /protocols [post]
func (h *Handlers) CreateProtocol(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	if idemKey != "" && h.idem != nil {
		if id, status, found := h.idem.Find(ctx, uid, scope, idemKey, time.Now().UTC()); found {
			if prev, err := h.protocols.Get(ctx, id); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				if status == http.StatusCreated {
					created(c, prev.ID, prev)
				} else {
					ok(c, status, prev)
				}
				return
			}
		}
	}

	var req CreateProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.protocols.Create(ctx, services.CreateInput{
		ShopNumber:     req.ShopNumber,
		DeliveredBy:    req.DeliveredBy,
		DocumentTypeID: req.DocumentTypeID,
		Quantity:       req.Quantity,
		Observations:   req.Observations,
		UserID:         uid,
	})
	if err != nil {
		failService(c, err)
		return
	}

	if idemKey != "" && h.idem != nil {
		if err := h.idem.Remember(ctx, uid, scope, idemKey, p.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("protocol_number", p.Number).Msg("idempotency record failed")
		}
	}

	view, err := h.protocols.Get(ctx, p.ID)
	if err != nil {
		view = &services.ProtocolView{Protocol: *p}
	}
	created(c, p.ID, view)
}

// ListProtocols godoc
// @ID          listProtocols
// @Summary     Query protocols
// @Description Filters, sorts and paginates protocols. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Protocols
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       q          query  string  false "Search text"
// @Param       mode       query  string  false "text (substring over number/shop/deliverer/creator) or shops (comma-separated shop numbers)"  Enums(text, shops)
// @Param       status     query  string  false "active, archived or all"
// @Param       date       query  string  false "Calendar day YYYY-MM-DD"
// @Param       tz         query  string  false "IANA time zone for date"  example(America/Sao_Paulo)
// @Param       sort       query  string  false "Sort key"  Enums(created_at, protocol_number, shop_number)
// @Param       order      query  string  false "Sort order"  Enums(asc, desc)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} services.ProtocolPage
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /protocols [get]
func (h *Handlers) ListProtocols(c *gin.Context) {
	ctx := c.Request.Context()

	q, valid := h.parseQuery(c)
	if !valid {
		return
	}

	// ETag pre-check (best effort).
	if fp, err := h.protocols.Fingerprint(ctx); err == nil {
		etag := listETag(fp, c.Request.URL.RawQuery)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	page, err := h.protocols.Query(ctx, q)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

// NextProtocolNumber godoc
// @ID          nextProtocolNumber
// @Summary     Preview the next protocol number
// @Description Returns the number the next create would receive for the given year. Nothing is reserved.
// @Tags        Protocols
// @Produce     json
// @Param       year  query  int  false "Four-digit year (default: current year)"  example(2025)
// @Success     200  {object} handlers.NextNumberResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /protocols/next-number [get]
func (h *Handlers) NextProtocolNumber(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || len(raw) != 4 {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "year must be a four-digit number")
			return
		}
		year = n
	}
	n, err := h.protocols.AllocateProtocolNumber(c.Request.Context(), year)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, NextNumberResponse{ProtocolNumber: n})
}

// ProtocolStats godoc
// @ID          protocolStats
// @Summary     Dashboard counters
// @Tags        Protocols
// @Produce     json
// @Success     200  {object} search.Stats
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /protocols/stats [get]
func (h *Handlers) ProtocolStats(c *gin.Context) {
	st, err := h.protocols.Stats(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// GetProtocol godoc
// @ID          getProtocol
// @Summary     Protocol detail
// @Tags        Protocols
// @Produce     json
// @Param       id  path  string  true  "Protocol ID (UUID)"  format(uuid)
// @Success     200  {object} services.ProtocolView
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Protocol not found"
// @Router      /protocols/{id} [get]
func (h *Handlers) GetProtocol(c *gin.Context) {
	id, valid := protocolID(c)
	if !valid {
		return
	}
	v, err := h.protocols.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// UpdateProtocol godoc
// @ID          updateProtocol
// @Summary     Edit a protocol
// @Description Replaces the mutable fields. The protocol number and creation time never change.
// @Tags        Protocols
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       id    path  string  true  "Protocol ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateProtocolRequest  true  "Edited fields"
// @Success     200  {object} services.ProtocolView
// @Failure     400  {object} handlers.ErrorResponse "Bad request or immutable field"
// @Failure     404  {object} handlers.ErrorResponse "Protocol not found"
// @Router      /protocols/{id} [put]
func (h *Handlers) UpdateProtocol(c *gin.Context) {
	id, valid := protocolID(c)
	if !valid {
		return
	}
	var req UpdateProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	p, err := h.protocols.Update(ctx, id, services.UpdateInput{
		ShopNumber:     req.ShopNumber,
		DeliveredBy:    req.DeliveredBy,
		DocumentTypeID: req.DocumentTypeID,
		Quantity:       req.Quantity,
		Observations:   req.Observations,
		UserID:         userID(c),
		ProtocolNumber: req.ProtocolNumber,
		CreatedAt:      req.CreatedAt,
	})
	if err != nil {
		failService(c, err)
		return
	}
	h.respondView(c, p)
}

// ArchiveProtocol godoc
// @ID          archiveProtocol
// @Summary     Archive a protocol
// @Description Marks the protocol archived. Archiving an archived protocol is a no-op.
// @Tags        Protocols
// @Produce     json
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       id  path  string  true  "Protocol ID (UUID)"  format(uuid)
// @Success     200  {object} services.ProtocolView
// @Failure     404  {object} handlers.ErrorResponse "Protocol not found"
// @Router      /protocols/{id}/archive [post]
func (h *Handlers) ArchiveProtocol(c *gin.Context) {
	id, valid := protocolID(c)
	if !valid {
		return
	}
	p, err := h.protocols.Archive(c.Request.Context(), id, userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	h.respondView(c, p)
}

// DeleteProtocol godoc
// @ID          deleteProtocol
// @Summary     Delete a protocol
// @Description Soft-deletes the protocol. Its number is never issued again.
// @Tags        Protocols
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       id  path  string  true  "Protocol ID (UUID)"  format(uuid)
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Protocol not found"
// @Router      /protocols/{id} [delete]
func (h *Handlers) DeleteProtocol(c *gin.Context) {
	id, valid := protocolID(c)
	if !valid {
		return
	}
	if err := h.protocols.Delete(c.Request.Context(), id, userID(c)); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// respondView answers with the decorated record, falling back to the bare
// protocol when the re-read fails.
func (h *Handlers) respondView(c *gin.Context, p *domain.Protocol) {
	view, err := h.protocols.Get(c.Request.Context(), p.ID)
	if err != nil {
		view = &services.ProtocolView{Protocol: *p}
	}
	ok(c, http.StatusOK, view)
}
