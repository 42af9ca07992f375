package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comigor/xylogen-go/internal/history"
)

// ListSessions handles GET /api/sessions.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.deps.Sessions.List(c.Request.Context())
	if err != nil {
		h.log.Error("error listing sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// SaveSession handles POST /api/sessions. Conversations shorter than two
// messages are acknowledged but not stored.
func (h *Handler) SaveSession(c *gin.Context) {
	var in history.Session
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session"})
		return
	}

	saved, err := h.deps.Sessions.Save(c.Request.Context(), in)
	if errors.Is(err, history.ErrInvalidRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("error saving session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if saved == nil {
		c.JSON(http.StatusOK, gin.H{"saved": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": true, "session": saved})
}

// GetSession handles GET /api/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.deps.Sessions.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		h.log.Error("error fetching session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSession handles DELETE /api/sessions/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	err := h.deps.Sessions.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		h.log.Error("error deleting session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSessions handles DELETE /api/sessions.
func (h *Handler) DeleteSessions(c *gin.Context) {
	if err := h.deps.Sessions.DeleteAll(c.Request.Context()); err != nil {
		h.log.Error("error deleting sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.Status(http.StatusNoContent)
}
