package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comigor/xylogen-go/internal/images"
)

// GenerateImage handles POST /api/generate-image. It always answers 200;
// an unreadable body yields the fallback image.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req images.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("error decoding image request; using fallback image", "error", err)
		req = images.Request{}
	}
	c.JSON(http.StatusOK, images.Generate(req))
}

type downloadRequest struct {
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
}

// DownloadImage handles POST /api/download-image by streaming the upstream
// image back as an attachment.
func (h *Handler) DownloadImage(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl is required"})
		return
	}

	dl, err := h.deps.Images.Fetch(c.Request.Context(), req.ImageURL)
	if errors.Is(err, images.ErrInvalidURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl must be an absolute http(s) URL"})
		return
	}
	if err != nil {
		h.log.Error("error downloading image", "url", req.ImageURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download image"})
		return
	}
	defer dl.Body.Close()

	name := images.Filename(req.Filename, req.ImageURL, dl.ContentType, h.now())
	c.DataFromReader(http.StatusOK, dl.ContentLength, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
		"Cache-Control":       "no-store",
	})
}

// AnalyzeImage handles POST /api/analyze-image (multipart: image, message).
func (h *Handler) AnalyzeImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.deps.MaxUploadBytes+(1<<20))

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > h.deps.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
		return
	}

	c.JSON(http.StatusOK, images.Analyze(file.Filename, c.PostForm("message"), file.Size))
}
