package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-tracker/api/internal/analyzer"
	"nutrition-tracker/api/internal/nutrition"
	"nutrition-tracker/api/internal/store"
)

// Analyzer is the orchestrator pair behind the analyze endpoints.
type Analyzer interface {
	AnalyzeFood(ctx context.Context, description string) (nutrition.Record, error)
	AnalyzeImage(ctx context.Context, img []byte) (nutrition.Record, error)
}

type Options struct {
	// ParseErrorStatus is returned for an answer that failed normalization.
	ParseErrorStatus int
	MaxImageBytes    int64
	Timeout          time.Duration
}

type Handle struct {
	an   Analyzer
	repo store.Repository
	log  *zap.Logger
	opts Options
}

func New(an Analyzer, repo store.Repository, log *zap.Logger, opts Options) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ParseErrorStatus == 0 {
		opts.ParseErrorStatus = http.StatusBadRequest
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 10 << 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 180 * time.Second
	}
	return &Handle{an: an, repo: repo, log: log, opts: opts}
}

type errorBody struct {
	Detail string `json:"detail"`
}

type entryResponse struct {
	Message string           `json:"message"`
	Entry   nutrition.Record `json:"entry"`
}

func writeError(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, errorBody{Detail: detail})
}

// fail maps an error to its status: bad input and unusable answers are the
// caller's problem, collaborator and storage failures are ours.
func (h *Handle) fail(c *gin.Context, err error) {
	var (
		parseErr    *nutrition.AnalysisParseError
		upstreamErr *analyzer.UpstreamError
	)
	switch {
	case errors.As(err, &parseErr):
		writeError(c, h.opts.ParseErrorStatus, err.Error())
	case errors.Is(err, analyzer.ErrEmptyDescription),
		errors.Is(err, analyzer.ErrEmptyImage),
		errors.Is(err, analyzer.ErrUnsupportedImage):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(c, http.StatusNotFound, "Food log not found")
	case errors.As(err, &upstreamErr):
		writeError(c, http.StatusInternalServerError, "Error analyzing food: "+err.Error())
	default:
		writeError(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handle) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Food Nutrition Analyzer API"})
}

func (h *Handle) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.repo.Ping(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "db: not ok\n"+err.Error())
		return
	}
	c.String(http.StatusOK, "ok")
}
