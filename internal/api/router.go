// Package api exposes the assistant over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comigor/xylogen-go/internal/chat"
	"github.com/comigor/xylogen-go/internal/history"
	"github.com/comigor/xylogen-go/internal/images"
	"github.com/comigor/xylogen-go/internal/logger"
	"github.com/comigor/xylogen-go/internal/metrics"
	"github.com/comigor/xylogen-go/internal/news"
	"github.com/comigor/xylogen-go/internal/provider"
)

// ChatResponder answers chat messages.
type ChatResponder interface {
	Respond(ctx context.Context, req chat.Request) chat.Response
	Probe(ctx context.Context) []provider.ProbeResult
	Providers() []provider.Descriptor
}

// NewsDiscoverer produces news batches.
type NewsDiscoverer interface {
	Discover(ctx context.Context, q news.Query) news.Batch
}

// ImageFetcher opens remote images for the download proxy.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*images.Download, error)
}

// Deps are the services behind the handlers.
type Deps struct {
	Chat           ChatResponder
	News           NewsDiscoverer
	Images         ImageFetcher
	Sessions       history.Store
	MaxUploadBytes int64
	AllowedOrigins []string
}

// Handler holds the HTTP handlers.
type Handler struct {
	deps Deps
	now  func() time.Time
	log  *slog.Logger
}

// NewHandler returns handlers over deps.
func NewHandler(deps Deps) *Handler {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 10 << 20
	}
	return &Handler{deps: deps, now: time.Now, log: logger.Component("api")}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	h := NewHandler(deps)

	r := gin.New()
	r.Use(h.requestLog(), gin.CustomRecovery(h.recovered))

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	api := r.Group("/api")
	api.POST("/chat", h.Chat)
	api.POST("/discover", h.Discover)
	api.POST("/generate-image", h.GenerateImage)
	api.POST("/download-image", h.DownloadImage)
	api.POST("/analyze-image", h.AnalyzeImage)
	api.GET("/health", h.Health)
	api.GET("/debug/keys", h.DebugKeys)
	api.GET("/debug/providers", h.DebugProviders)

	api.GET("/sessions", h.ListSessions)
	api.POST("/sessions", h.SaveSession)
	api.DELETE("/sessions", h.DeleteSessions)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (h *Handler) recovered(c *gin.Context, err any) {
	h.log.Error("panic while handling request", "path", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(code)).Inc()
		h.log.Info("request", "method", c.Request.Method, "route", route, "status", code, "duration", time.Since(start))
	}
}
