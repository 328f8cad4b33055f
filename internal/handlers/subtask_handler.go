package handlers

import (
	"net/http"

	"tasktrack-api/internal/database"
	"tasktrack-api/internal/store"
	"tasktrack-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// AddSubtaskRequest represents the payload for adding a subtask
type AddSubtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// ToggleSubtaskRequest represents the payload for (un)completing a subtask
type ToggleSubtaskRequest struct {
	Done bool `json:"done"`
}

// GetSubtasks handles GET /api/tasks/:id/subtasks
func GetSubtasks(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	s := store.New(database.GetDB())
	subtasks, err := s.ListSubtasks(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subtasks"})
		return
	}

	done, total := workflow.SubtaskRatio(subtasks)
	c.JSON(http.StatusOK, gin.H{
		"subtasks": subtasks,
		"done":     done,
		"total":    total,
	})
}

// AddSubtask handles POST /api/tasks/:id/subtasks
func AddSubtask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	var req AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := store.New(database.GetDB())
	subtask, err := s.AddSubtask(c.Request.Context(), taskID, req.Title)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subtask)
}

// ToggleSubtask handles PATCH /api/subtasks/:id/toggle
// The authenticated user is recorded as the completer when marking done.
func ToggleSubtask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	subtaskID := c.Param("id")
	if subtaskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtask ID is required"})
		return
	}

	var req ToggleSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := store.New(database.GetDB())
	subtask, err := s.ToggleSubtask(c.Request.Context(), subtaskID, req.Done, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, subtask)
}
