package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktrack-api/internal/cache"
	"tasktrack-api/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound signals an operation referencing a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrValidation signals a missing or invalid required field.
	ErrValidation = errors.New("validation failed")
)

// nameCacheTTL bounds how stale joined display names may get.
const nameCacheTTL = 5 * time.Minute

// displayNames caches userID -> display name lookups used when enriching
// tasks and comments. Shared across Store instances so handler-scoped
// construction stays cheap.
var displayNames = cache.NewSimpleCache[string, string](cache.Options{ConcurrencySafe: true})

// Store is the source of truth for tasks and their subresources. All reads
// return plain snapshots; all writes validate before touching the database so
// a failed operation leaves records unchanged.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm connection in a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// displayName resolves a user's display name, falling back to the username
// and caching the result.
func (s *Store) displayName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	if name, ok := displayNames.Get(userID); ok {
		return name
	}

	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return ""
	}
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	displayNames.Set(userID, name, nameCacheTTL)
	return name
}

// ListUsers returns every user.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
