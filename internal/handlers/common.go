package handlers

import (
	"errors"
	"net/http"
	"time"

	"tasktrack-api/internal/store"
	"tasktrack-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// respondStoreError translates the store/workflow error taxonomy to HTTP.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrValidation),
		errors.Is(err, workflow.ErrInvalidStatus),
		errors.Is(err, workflow.ErrInvalidProgress):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// parseDateFlexible accepts the date formats clients are known to send.
func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02",  // ISO date
		"2 Jan 2006",  // e.g., 30 Oct 2025
		time.RFC3339,  // full RFC3339
		"02 Jan 2006", // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
