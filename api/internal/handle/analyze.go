package handle

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-tracker/api/internal/nutrition"
)

type analyzeRequest struct {
	Description string `json:"description" binding:"required"`
}

// Analyze handles POST /analyze and POST /track/text.
func (h *Handle) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	rec, err := h.an.AnalyzeFood(ctx, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.save(ctx, c, rec, "Food entry logged successfully")
}

// TrackImage handles POST /track/image with a multipart "image" file.
func (h *Handle) TrackImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fh.Size > h.opts.MaxImageBytes {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("image exceeds %d bytes", h.opts.MaxImageBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read image: "+err.Error())
		return
	}
	defer f.Close()
	img, err := io.ReadAll(io.LimitReader(f, h.opts.MaxImageBytes+1))
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read image: "+err.Error())
		return
	}
	if int64(len(img)) > h.opts.MaxImageBytes {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("image exceeds %d bytes", h.opts.MaxImageBytes))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	rec, err := h.an.AnalyzeImage(ctx, img)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.save(ctx, c, rec, "Image processed successfully")
}

func (h *Handle) save(ctx context.Context, c *gin.Context, rec nutrition.Record, msg string) {
	saved, err := h.repo.Create(ctx, rec)
	if err != nil {
		h.log.Error("store food log", zap.Error(err))
		h.fail(c, err)
		return
	}
	h.log.Info("food entry logged", zap.Uint("id", saved.ID), zap.String("description", saved.Description))
	c.JSON(http.StatusOK, entryResponse{Message: msg, Entry: saved})
}
