package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktrack-api/internal/auth"
	"tasktrack-api/internal/database"
	"tasktrack-api/internal/middleware"
	"tasktrack-api/internal/models"
	"tasktrack-api/internal/store"
	"tasktrack-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupTaskRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware())
	r.GET("/api/tasks", GetTasks)
	r.POST("/api/tasks", CreateTask)
	r.PATCH("/api/tasks/:id/status", UpdateTaskStatus)
	r.GET("/api/timeline", GetTimeline)
	return r
}

func authedRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	token, err := auth.GenerateToken("u-1", "sarah", models.RoleManager)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCreateTask_Success(t *testing.T) {
	r := setupTaskRouter(t)

	// Seed a user to be the assignee
	assignee := models.User{ID: "u-2", Username: "david", DisplayName: "David Employee", Password: "x"}
	require.NoError(t, database.DB.Create(&assignee).Error)

	payload := map[string]any{
		"title":          "GST Return - Client ABC Ltd",
		"description":    "Monthly GST return for December 2024",
		"priority":       "high",
		"dueDate":        "2025-02-01",
		"team":           "Tax Compliance",
		"assigneeIds":    []string{"u-2"},
		"estimatedHours": 8,
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/tasks", payload))
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, models.StatusNotStarted, created.Status)
	require.Equal(t, models.PriorityHigh, created.Priority)
	require.Len(t, created.Assignees, 1)
	require.Equal(t, "David Employee", created.Assignees[0].Name)
}

func TestCreateTask_EmptyTitleRejected(t *testing.T) {
	r := setupTaskRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/tasks", map[string]any{
		"title": "   ",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTasks_SearchAndCounts(t *testing.T) {
	r := setupTaskRouter(t)
	s := store.New(database.DB)

	seed := []struct {
		title  string
		status models.TaskStatus
	}{
		{"GST Return - Client ABC Ltd", models.StatusInProgress},
		{"Income Tax Filing - Individual XYZ", models.StatusAssigned},
		{"GST Return - Client MNO Ltd", models.StatusDelivered},
	}
	for _, row := range seed {
		_, err := s.CreateTask(context.Background(), store.CreateTaskInput{
			Title:     row.title,
			Status:    row.status,
			CreatedBy: "u-1",
		})
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/api/tasks?search=gst", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks  []models.Task  `json:"tasks"`
		Total  int            `json:"total"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	require.Equal(t, 1, resp.Counts["active"])
	require.Equal(t, 1, resp.Counts["completed"])
}

func TestUpdateTaskStatus_InvalidStatus(t *testing.T) {
	r := setupTaskRouter(t)
	s := store.New(database.DB)

	task, err := s.CreateTask(context.Background(), store.CreateTaskInput{Title: "Audit Documents - GHI Ltd", CreatedBy: "u-1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{
		"status": "archived",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskStatus_DerivedProgress(t *testing.T) {
	r := setupTaskRouter(t)
	s := store.New(database.DB)

	task, err := s.CreateTask(context.Background(), store.CreateTaskInput{Title: "TDS Return Q3 - DEF Corp", CreatedBy: "u-1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{
		"status": "in_progress",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, models.StatusInProgress, updated.Status)
	require.Equal(t, 50, updated.Progress)
}

func TestGetTimeline_PositionsTasks(t *testing.T) {
	r := setupTaskRouter(t)
	s := store.New(database.DB)

	mk := func(title, start, end string) {
		startT, ok := parseDateFlexible(start)
		require.True(t, ok)
		endT, ok := parseDateFlexible(end)
		require.True(t, ok)
		_, err := s.CreateTask(context.Background(), store.CreateTaskInput{
			Title:     title,
			StartDate: &startT,
			EndDate:   &endT,
			CreatedBy: "u-1",
		})
		require.NoError(t, err)
	}
	mk("GST Return - Client ABC Ltd", "2025-01-09", "2025-01-12")
	mk("ROC Annual Filing - JKL Pvt Ltd", "2024-11-01", "2024-11-05") // outside window

	w := httptest.NewRecorder()
	target := fmt.Sprintf("/api/timeline?start=%s&days=%d", "2025-01-10", 18)
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows []TimelineRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	require.InDelta(t, 0.0, resp.Rows[0].Position.Left, 1e-9)
	require.InDelta(t, 3.0/18.0, resp.Rows[0].Position.Width, 1e-9)
}
