package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutrition-tracker/api/internal/store"
)

// ListLogs handles GET /logs?skip=&limit=, newest first.
func (h *Handle) ListLogs(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		writeError(c, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		writeError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > store.MaxLimit {
		limit = store.MaxLimit
	}

	logs, err := h.repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetLog handles GET /logs/:id.
func (h *Handle) GetLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(c, http.StatusNotFound, "Food log not found")
		return
	}
	rec, err := h.repo.Get(c.Request.Context(), uint(id))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
