// Export, import and backup HTTP handlers.
//
//   - GET  /export   (download the registry as a JSON bundle)
//   - POST /import   (additive import of a bundle)
//   - POST /backups  (write an export to the configured sink)
//   - GET  /backups  (list stored backups)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/backup"
	"github.com/tbourn/go-protocol-backend/internal/http/middleware"
	"github.com/tbourn/go-protocol-backend/internal/services"
)

// ListBackupsResponse wraps stored backups.
type ListBackupsResponse struct {
	Backups []backup.Info `json:"backups"`
}

// Export godoc
// @ID          exportRegistry
// @Summary     Export the registry
// @Description Returns every live protocol and document type as a downloadable bundle.
// @Tags        Transfer
// @Produce     json
// @Success     200  {object} services.Bundle
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /export [get]
func (h *Handlers) Export(c *gin.Context) {
	b, err := h.transfer.Export(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="protocols-`+b.ExportDate.Format("2006-01-02")+`.json"`)
	ok(c, http.StatusOK, b)
}

// Import godoc
// @ID          importRegistry
// @Summary     Import a bundle
// @Description Adds document types (matched by name) and protocols. Existing numbers are skipped;
// @Description legacy created_at shapes are normalized to epoch seconds.
// @Tags        Transfer
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "Acting user"
// @Param       body  body  services.ImportBundle  true  "Export bundle"
// @Success     200  {object} services.ImportResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /import [post]
func (h *Handlers) Import(c *gin.Context) {
	var b services.ImportBundle
	if err := c.ShouldBindJSON(&b); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON bundle")
		return
	}
	res, err := h.transfer.Import(c.Request.Context(), userID(c), b)
	if err != nil {
		if res != nil {
			middleware.LoggerFrom(c).Warn().
				Int("imported", res.Imported).
				Int("skipped", res.Skipped).
				Msg("import aborted after partial progress")
		}
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// CreateBackup godoc
// @ID          createBackup
// @Summary     Back up the registry
// @Tags        Transfer
// @Produce     json
// @Param       X-User-ID  header  string  false "Acting user"
// @Success     201  {object} backup.Info
// @Failure     501  {object} handlers.ErrorResponse "Backups not configured"
// @Failure     503  {object} handlers.ErrorResponse "Sink unavailable"
// @Router      /backups [post]
func (h *Handlers) CreateBackup(c *gin.Context) {
	info, err := h.transfer.Backup(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, info)
}

// ListBackups godoc
// @ID          listBackups
// @Summary     List backups
// @Tags        Transfer
// @Produce     json
// @Success     200  {object} handlers.ListBackupsResponse
// @Failure     501  {object} handlers.ErrorResponse "Backups not configured"
// @Router      /backups [get]
func (h *Handlers) ListBackups(c *gin.Context) {
	items, err := h.transfer.Backups(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListBackupsResponse{Backups: items})
}
