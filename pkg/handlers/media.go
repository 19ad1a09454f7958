package handlers

import (
	"errors"
	"net/http"
	"time"

	"newsdesk/pkg/api"
	"newsdesk/pkg/models"
	"newsdesk/pkg/services"

	"github.com/gin-gonic/gin"
)

// Upload accepts one image in the "image" field and forwards it to the API.
// It answers JSON: {"imageUrl": ...} or {"error": ...}.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.UploadMaxBytes+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	img, err := services.PrepareImage(header.Filename, src, h.opts.UploadMaxBytes, time.Now())
	switch {
	case errors.Is(err, models.ErrNotImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Only image files can be uploaded"})
		return
	case errors.Is(err, models.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	case err != nil:
		h.logFailure(c, "failed to read upload", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	res, err := services.UploadImage(c.Request.Context(), h.client(c), img)
	if err != nil {
		if api.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		h.logFailure(c, "failed to upload image", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": api.Message(err, "Upload failed")})
		return
	}
	c.JSON(http.StatusOK, res)
}
