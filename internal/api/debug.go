package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	configured := 0
	for _, p := range h.deps.Chat.Providers() {
		if p.Configured {
			configured++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"timestamp":            h.now().UTC().Format(time.RFC3339),
		"configured_providers": configured,
	})
}

type keyStatus struct {
	Provider string `json:"provider"`
	Env      string `json:"env"`
	Present  bool   `json:"present"`
}

// DebugKeys handles GET /api/debug/keys. It reports presence only.
func (h *Handler) DebugKeys(c *gin.Context) {
	keys := []keyStatus{}
	for _, p := range h.deps.Chat.Providers() {
		keys = append(keys, keyStatus{Provider: p.Label, Env: p.Env, Present: p.Configured})
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// DebugProviders handles GET /api/debug/providers by probing every
// configured provider once.
func (h *Handler) DebugProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"providers": h.deps.Chat.Probe(c.Request.Context()),
	})
}
