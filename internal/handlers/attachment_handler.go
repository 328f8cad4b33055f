package handlers

import (
	"net/http"

	"tasktrack-api/internal/database"
	"tasktrack-api/internal/models"
	"tasktrack-api/internal/store"

	"github.com/gin-gonic/gin"
)

// AddAttachmentRequest represents attachment metadata supplied by the client.
// The file blob itself is uploaded to external storage; only FilePath is
// recorded here.
type AddAttachmentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
	FilePath string `json:"filePath"`
}

// GetAttachments handles GET /api/tasks/:id/attachments
func GetAttachments(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	s := store.New(database.GetDB())
	attachments, err := s.ListAttachments(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": attachments,
		"count":       len(attachments),
	})
}

// AddAttachment handles POST /api/tasks/:id/attachments
func AddAttachment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := store.New(database.GetDB())
	attachment, err := s.AddAttachment(c.Request.Context(), models.Attachment{
		TaskID:     taskID,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		FileType:   req.FileType,
		FilePath:   req.FilePath,
		UploadedBy: userID,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}
