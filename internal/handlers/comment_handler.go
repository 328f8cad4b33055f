package handlers

import (
	"net/http"

	"tasktrack-api/internal/database"
	"tasktrack-api/internal/store"

	"github.com/gin-gonic/gin"
)

// AddCommentRequest represents the payload for posting a comment
type AddCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// GetComments handles GET /api/tasks/:id/comments
// Comments are returned oldest first.
func GetComments(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	s := store.New(database.GetDB())
	comments, err := s.ListComments(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// AddComment handles POST /api/tasks/:id/comments
func AddComment(c *gin.Context) {
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

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := store.New(database.GetDB())
	comment, err := s.AddComment(c.Request.Context(), taskID, userID, req.Body)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}
