package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tasktrack-api/internal/database"
	"tasktrack-api/internal/models"
	"tasktrack-api/internal/query"
	"tasktrack-api/internal/store"
	"tasktrack-api/internal/timeline"

	"github.com/gin-gonic/gin"
)

// defaultWindowDays matches the Gantt view's 18-day window
// (5 days back, today, 12 days ahead).
const defaultWindowDays = 18

// TimelineRow is one renderable task bar.
type TimelineRow struct {
	Task     models.Task          `json:"task"`
	Position timeline.BarPosition `json:"position"`
}

/*
*
GetTimeline handles GET /api/timeline
Positions tasks against a visible window.
Query params: start (window start date, default 5 days ago), days (window
length, default 18), team (optional filter). Tasks without both start and end
dates, or entirely outside the window, are omitted.
*/
func GetTimeline(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	start := time.Now().AddDate(0, 0, -5)
	if raw := c.Query("start"); raw != "" {
		t, ok := parseDateFlexible(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date: " + raw})
			return
		}
		start = t
	}

	days := defaultWindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	s := store.New(database.GetDB())
	tasks, err := s.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	tasks = query.Run(tasks, query.Options{
		Team:    c.Query("team"),
		SortKey: query.SortByCreatedAt,
		SortDir: query.Ascending,
	})

	window := timeline.NewWindow(start, days)
	rows := make([]TimelineRow, 0, len(tasks))
	for _, t := range tasks {
		if t.StartDate == nil || t.EndDate == nil {
			continue
		}
		pos, ok := window.Layout(*t.StartDate, *t.EndDate)
		if !ok {
			continue
		}
		rows = append(rows, TimelineRow{Task: t, Position: pos})
	}

	c.JSON(http.StatusOK, gin.H{
		"window": gin.H{
			"start": window.Start.Format("2006-01-02"),
			"days":  window.Days,
		},
		"todayOffset": window.TodayOffset(time.Now()),
		"rows":        rows,
	})
}
