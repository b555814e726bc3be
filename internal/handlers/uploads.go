package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/electrify/backend/internal/storage"
)

const maxUploadBytes = 5 << 20 // 5 MB image cap

type UploadHandler struct {
	uploader storage.Uploader
}

func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload accepts a multipart image and returns its durable URL.
// Only the URL is ever stored on contests and contestants.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file exceeds the 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read file"})
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "secure_url": url})
}
