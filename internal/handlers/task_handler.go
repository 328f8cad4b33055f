package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tasktrack-api/internal/database"
	"tasktrack-api/internal/models"
	"tasktrack-api/internal/query"
	"tasktrack-api/internal/realtime"
	"tasktrack-api/internal/store"
	"tasktrack-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title          string              `json:"title" binding:"required"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        string              `json:"dueDate"`
	StartDate      string              `json:"startDate"`
	EndDate        string              `json:"endDate"`
	Team           string              `json:"team"`
	AssigneeIDs    []string            `json:"assigneeIds"`
	EstimatedHours float64             `json:"estimatedHours"`
	Progress       *int                `json:"progress"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	Priority       *models.TaskPriority `json:"priority"`
	DueDate        *string              `json:"dueDate"`
	StartDate      *string              `json:"startDate"`
	EndDate        *string              `json:"endDate"`
	Team           *string              `json:"team"`
	AssigneeIDs    []string             `json:"assigneeIds"`
	EstimatedHours *float64             `json:"estimatedHours"`
	ActualHours    *float64             `json:"actualHours"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status   models.TaskStatus `json:"status" binding:"required"`
	Progress *int              `json:"progress"`
}

// queryOptionsFromParams maps list query params onto the query engine's
// caller-owned configuration.
func queryOptionsFromParams(c *gin.Context) query.Options {
	opts := query.Options{
		Search:   c.Query("search"),
		Team:     c.Query("team"),
		Assignee: c.Query("assignee"),
		SortKey:  query.SortByDueDate,
		SortDir:  query.Ascending,
	}

	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		opts.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		opts.Priority = &priority
	}
	switch query.SortKey(c.Query("sort")) {
	case query.SortByCreatedAt:
		opts.SortKey = query.SortByCreatedAt
	case query.SortByPriority:
		opts.SortKey = query.SortByPriority
	case query.SortByTitle:
		opts.SortKey = query.SortByTitle
	}
	if strings.ToLower(c.Query("direction")) == string(query.Descending) {
		opts.SortDir = query.Descending
	}
	return opts
}

/*
*
GetTasks handles GET /api/tasks
Returns the filtered, sorted, paginated task list for authenticated users.
Query params: search, status, priority, team, assignee, sort (due_date|
created_at|priority|title), direction (asc|desc), page (default 1), limit
(default 20).
*/
func GetTasks(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	s := store.New(database.GetDB())
	all, err := s.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	filtered := query.Run(all, queryOptionsFromParams(c))
	counts := query.Counts(filtered, query.DefaultGroups())

	// Paginate the filtered view
	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":  filtered[start:end],
		"count":  end - start,
		"total":  len(filtered),
		"counts": counts,
		"page":   page,
		"limit":  limit,
	})
}

/*
*
CreateTask handles POST /api/tasks
Creates a new task for the authenticated user
*/
func CreateTask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	in := store.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Team:           req.Team,
		AssigneeIDs:    req.AssigneeIDs,
		EstimatedHours: req.EstimatedHours,
		Progress:       req.Progress,
		CreatedBy:      userID,
	}
	if t, ok := parseDateFlexible(req.DueDate); ok {
		in.DueDate = &t
	}
	if t, ok := parseDateFlexible(req.StartDate); ok {
		in.StartDate = &t
	}
	if t, ok := parseDateFlexible(req.EndDate); ok {
		in.EndDate = &t
	}

	s := store.New(database.GetDB())
	task, err := s.CreateTask(c.Request.Context(), in)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	realtime.GetHub().PublishTaskEvent(userID, realtime.EventTaskCreated, task.ID)

	c.JSON(http.StatusCreated, task)
}

// GetTaskByID handles GET /api/tasks/:id
// Returns a task with its subtasks, comments, attachments and history
func GetTaskByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	ctx := c.Request.Context()
	s := store.New(database.GetDB())

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	subtasks, err := s.ListSubtasks(ctx, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subtasks"})
		return
	}
	comments, err := s.ListComments(ctx, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	attachments, err := s.ListAttachments(ctx, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}
	history, err := s.ListHistory(ctx, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	done, total := workflow.SubtaskRatio(subtasks)

	c.JSON(http.StatusOK, gin.H{
		"task":          task,
		"subtasks":      subtasks,
		"subtasksDone":  done,
		"subtasksTotal": total,
		"comments":      comments,
		"attachments":   attachments,
		"history":       history,
	})
}

// UpdateTask handles PUT /api/tasks/:id
// Applies field edits to a task
func UpdateTask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := store.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Team:           req.Team,
		AssigneeIDs:    req.AssigneeIDs,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	in.DueDate = parseOptionalDate(c, req.DueDate)
	if c.IsAborted() {
		return
	}
	in.StartDate = parseOptionalDate(c, req.StartDate)
	if c.IsAborted() {
		return
	}
	in.EndDate = parseOptionalDate(c, req.EndDate)
	if c.IsAborted() {
		return
	}

	s := store.New(database.GetDB())
	task, err := s.UpdateTask(c.Request.Context(), taskID, in)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	realtime.GetHub().PublishTaskEvent(userID, realtime.EventTaskUpdated, task.ID)

	c.JSON(http.StatusOK, task)
}

// parseOptionalDate converts an optional date string, aborting with 400 on an
// unparseable value.
func parseOptionalDate(c *gin.Context, raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, ok := parseDateFlexible(*raw)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + *raw})
		return nil
	}
	return &t
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// Runs the workflow transition with the authenticated user as actor
func UpdateTaskStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := store.New(database.GetDB())
	task, err := s.UpdateTaskStatus(c.Request.Context(), taskID, req.Status, req.Progress, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	realtime.GetHub().PublishTaskEvent(userID, realtime.EventTaskStatusChanged, task.ID)

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func DeleteTask(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	s := store.New(database.GetDB())
	if err := s.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondStoreError(c, err)
		return
	}

	realtime.GetHub().PublishTaskEvent(userID, realtime.EventTaskDeleted, taskID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}

// GetTaskHistory handles GET /api/tasks/:id/history
// Entries are returned oldest first.
func GetTaskHistory(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	s := store.New(database.GetDB())
	if _, err := s.GetTask(c.Request.Context(), taskID); err != nil {
		respondStoreError(c, err)
		return
	}
	history, err := s.ListHistory(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
	})
}

// GetStatsByUser handles GET /api/stats/:userid
// Returns per-status and grouped counts for tasks assigned to a user
func GetStatsByUser(c *gin.Context) {
	authUserID := c.GetString("user_id")
	if authUserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	targetUserID := c.Param("userid")
	if strings.TrimSpace(targetUserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userid is required"})
		return
	}

	s := store.New(database.GetDB())
	counts, err := s.StatusCountsByAssignee(c.Request.Context(), targetUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	// Group the per-status counts the same way the task list does.
	byStatus := make(map[string]int64, len(models.AllStatuses()))
	var total int64
	for _, status := range models.AllStatuses() {
		byStatus[string(status)] = counts[status]
		total += counts[status]
	}
	grouped := make(map[string]int64)
	for name, statuses := range query.DefaultGroups() {
		for _, status := range statuses {
			grouped[name] += counts[status]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"byStatus": byStatus,
		"groups":   grouped,
		"total":    total,
	})
}
