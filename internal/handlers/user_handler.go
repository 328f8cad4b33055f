package handlers

import (
	"net/http"

	"tasktrack-api/internal/database"
	"tasktrack-api/internal/models"
	"tasktrack-api/internal/store"

	"github.com/gin-gonic/gin"
)

type UserResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"displayName"`
	Role        models.UserRole `json:"role"`
}

// GetAllUsers returns all users (protected)
// GET /api/users
func GetAllUsers(c *gin.Context) {
	s := store.New(database.GetDB())
	users, err := s.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Map to safe response payload
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Role:        u.Role,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}
