package handle

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Prefix      string
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// NewRouter wires the REST surface. Routes live under cfg.Prefix ("" or e.g. "/api").
func (h *Handle) NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(h.log), RequestLogger(h.log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group(cfg.Prefix)
	{
		api.GET("/", h.Root)
		api.POST("/analyze", h.Analyze)
		api.POST("/track/text", h.Analyze)
		api.POST("/track/image", h.TrackImage)
		api.GET("/logs", h.ListLogs)
		api.GET("/logs/:id", h.GetLog)
	}
	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "Not Found")
	})
	return r
}
