// Activity log HTTP handlers.
//
//   - GET    /activity       (paginated, newest first)
//   - DELETE /activity/{id}  (remove one entry)
//   - DELETE /activity       (clear the log)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// ListActivityResponse wraps a page of activity entries.
type ListActivityResponse struct {
	Activity   []domain.ActivityLog `json:"activity"`
	Pagination Pagination           `json:"pagination"`
}

// ListActivity godoc
// @ID          listActivity
// @Summary     List activity (paginated)
// @Tags        Activity
// @Produce     json
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object} handlers.ListActivityResponse
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /activity [get]
func (h *Handlers) ListActivity(c *gin.Context) {
	page, pageSize := h.clampPagination(c)
	items, total, err := h.activity.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListActivityResponse{
		Activity:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// DeleteActivity godoc
// @ID          deleteActivity
// @Summary     Delete one activity entry
// @Tags        Activity
// @Param       id  path  string  true  "Entry ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Entry not found"
// @Router      /activity/{id} [delete]
func (h *Handlers) DeleteActivity(c *gin.Context) {
	if err := h.activity.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ClearActivity godoc
// @ID          clearActivity
// @Summary     Clear the activity log
// @Tags        Activity
// @Success     204  {string} string "No Content"
// @Router      /activity [delete]
func (h *Handlers) ClearActivity(c *gin.Context) {
	if err := h.activity.Clear(c.Request.Context()); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
