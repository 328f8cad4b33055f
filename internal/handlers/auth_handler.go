package handlers

import (
	"errors"
	"net/http"

	"tasktrack-api/internal/auth"
	"tasktrack-api/internal/database"
	"tasktrack-api/internal/models"
	"tasktrack-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Login handles the login endpoint
// POST /api/login
//
// First login for an unknown username creates the account; subsequent logins
// verify the password against the stored bcrypt hash.
func Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}

	s := store.New(database.GetDB())

	user, err := s.GetUserByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		hash, hashErr := auth.HashPassword(req.Password)
		if hashErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		user, err = s.CreateUser(c.Request.Context(), models.User{
			ID:          uuid.NewString(),
			Username:    req.Username,
			DisplayName: req.Username,
			Password:    hash,
			Role:        models.RoleEmployee,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	} else if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	// Generate JWT token
	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Login successful",
	})
}
