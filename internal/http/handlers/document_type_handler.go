// Document type HTTP handlers.
//
//   - GET    /document-types                    (list)
//   - POST   /document-types                    (create)
//   - PUT    /document-types/{id}               (rename)
//   - DELETE /document-types/{id}               (delete)
//   - GET    /document-types/abbreviation?name= (preview abbreviation)
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// DocumentTypeRequest is the JSON payload for creating or renaming a type.
type DocumentTypeRequest struct {
	Name string `json:"name" binding:"required" example:"Prancha de Loja"`
}

// ListDocumentTypesResponse wraps the catalog.
type ListDocumentTypesResponse struct {
	DocumentTypes []domain.DocumentType `json:"document_types"`
}

// AbbreviationResponse echoes a name with its derived abbreviation.
type AbbreviationResponse struct {
	Name         string `json:"name" example:"Prancha de Loja"`
	Abbreviation string `json:"abbreviation" example:"PD"`
}

// ListDocumentTypes godoc
// @ID          listDocumentTypes
// @Summary     List document types
// @Tags        DocumentTypes
// @Produce     json
// @Success     200  {object} handlers.ListDocumentTypesResponse
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /document-types [get]
func (h *Handlers) ListDocumentTypes(c *gin.Context) {
	types, err := h.types.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListDocumentTypesResponse{DocumentTypes: types})
}

// CreateDocumentType godoc
// @ID          createDocumentType
// @Summary     Create a document type
// @Description The abbreviation is derived from the name.
// @Tags        DocumentTypes
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       body  body  handlers.DocumentTypeRequest  true  "Type name"
// @Success     201  {object} domain.DocumentType
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Name already used"
// @Router      /document-types [post]
func (h *Handlers) CreateDocumentType(c *gin.Context) {
	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	t, err := h.types.Create(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		failService(c, err)
		return
	}
	created(c, strconv.FormatUint(uint64(t.ID), 10), t)
}

// RenameDocumentType godoc
// @ID          renameDocumentType
// @Summary     Rename a document type
// @Description Renaming recomputes the abbreviation; existing protocols keep their reference.
// @Tags        DocumentTypes
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       id    path  int  true  "Document type ID"  minimum(1)
// @Param       body  body  handlers.DocumentTypeRequest  true  "New name"
// @Success     200  {object} domain.DocumentType
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Document type not found"
// @Router      /document-types/{id} [put]
func (h *Handlers) RenameDocumentType(c *gin.Context) {
	id, valid := parseUintParam(c, "id")
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "document type id must be a positive integer")
		return
	}
	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	t, err := h.types.Rename(c.Request.Context(), userID(c), id, req.Name)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// DeleteDocumentType godoc
// @ID          deleteDocumentType
// @Summary     Delete a document type
// @Description Protocols referencing the type are kept and shown as "Unknown type".
// @Tags        DocumentTypes
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       id  path  int  true  "Document type ID"  minimum(1)
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Document type not found"
// @Router      /document-types/{id} [delete]
func (h *Handlers) DeleteDocumentType(c *gin.Context) {
	id, valid := parseUintParam(c, "id")
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "document type id must be a positive integer")
		return
	}
	if err := h.types.Delete(c.Request.Context(), userID(c), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// Abbreviation godoc
// @ID          documentTypeAbbreviation
// @Summary     Preview an abbreviation
// @Tags        DocumentTypes
// @Produce     json
// @Param       name  query  string  true  "Type name"  example(Prancha de Loja)
// @Success     200  {object} handlers.AbbreviationResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /document-types/abbreviation [get]
func (h *Handlers) Abbreviation(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	ok(c, http.StatusOK, AbbreviationResponse{Name: name, Abbreviation: h.types.Abbreviation(name)})
}
