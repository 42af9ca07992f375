package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comigor/xylogen-go/internal/chat"
	"github.com/comigor/xylogen-go/internal/news"
)

// Chat handles POST /api/chat. Provider exhaustion is a normal 200 answer;
// only an unreadable request is a 500.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("error decoding chat request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat request"})
		return
	}

	c.JSON(http.StatusOK, h.deps.Chat.Respond(c.Request.Context(), req))
}

// Discover handles POST /api/discover.
func (h *Handler) Discover(c *gin.Context) {
	var q news.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		h.log.Error("error decoding discover request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}

	c.JSON(http.StatusOK, h.deps.News.Discover(c.Request.Context(), q))
}
