package handler

import (
	"net/http"
	"strings"

	"github.com/edulink-app/edulink-api/pkg/response"
	"github.com/edulink-app/edulink-api/pkg/storage"
	"github.com/gin-gonic/gin"
)

// 10 MB cap on uploaded files.
const maxUploadSize = 10 << 20

var allowedUploadFolders = map[string]bool{
	"questions": true,
	"resources": true,
	"profiles":  true,
}

type UploadHandler struct {
	storage storage.FileStorage
}

func NewUploadHandler(storage storage.FileStorage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload accepts a multipart file and returns the URL of the stored copy.
// The caller references that URL when creating a question or resource.
func (h *UploadHandler) Upload(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.Error(c, err)
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 10MB limit"})
		return
	}

	folder := strings.ToLower(c.DefaultPostForm("folder", "questions"))
	if !allowedUploadFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upload folder"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.storage.Upload(c.Request.Context(), file, folder, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
