package api

import (
	"errors"
	"fmt"
	"net/http"

	"fasohabita/server/internal/models"
	"fasohabita/server/internal/objectstore"

	"github.com/gin-gonic/gin"
)

// RequestUploadURL issues a presigned PUT target for one listing photo
func (h *Handler) RequestUploadURL(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if limit := h.config.Storage.MaxUploadSize; limit > 0 && req.Size > limit {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("size must be at most %d bytes", limit),
			"field":   "size",
		})
		return
	}

	target, err := h.storage.PresignUpload(c.Request.Context(), req.Name)
	if err != nil {
		h.logger.WithError(err).WithField("name", req.Name).Error("Failed to issue upload URL")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get upload URL"})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		UploadURL:  target.UploadURL,
		ObjectPath: target.ObjectPath,
		Metadata:   req,
	})
}

// ServeObject redirects to a short-lived download URL for a stored photo
func (h *Handler) ServeObject(c *gin.Context) {
	objectPath := "/objects" + c.Param("objectPath")

	downloadURL, err := h.storage.PresignDownload(c.Request.Context(), objectPath)
	if errors.Is(err, objectstore.ErrObjectNotFound) || errors.Is(err, objectstore.ErrInvalidPath) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Object not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("object_path", objectPath).Error("Failed to serve object")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch object"})
		return
	}

	c.Redirect(http.StatusFound, downloadURL)
}
