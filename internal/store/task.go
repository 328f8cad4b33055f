package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tasktrack-api/internal/models"
	"tasktrack-api/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	DueDate        *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	Team           string
	AssigneeIDs    []string
	EstimatedHours float64
	Progress       *int
	CreatedBy      string
}

// UpdateTaskInput carries optional field edits; nil fields are untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.TaskPriority
	DueDate        *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	Team           *string
	AssigneeIDs    []string
	EstimatedHours *float64
	ActualHours    *float64
}

// ListTasks returns every task with assignee and creator names joined.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if err := s.enrich(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task with names joined.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	tasks := []models.Task{task}
	if err := s.enrich(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return tasks[0], nil
}

// CreateTask validates input, applies workflow creation defaults and persists
// the task, its assignments and a "Task created" history entry.
func (s *Store) CreateTask(ctx context.Context, in CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return models.Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	if in.EstimatedHours < 0 {
		return models.Task{}, fmt.Errorf("%w: estimated hours must not be negative", ErrValidation)
	}

	task := models.Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       priority,
		DueDate:        in.DueDate,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Team:           in.Team,
		EstimatedHours: in.EstimatedHours,
		CreatedBy:      in.CreatedBy,
	}

	entry, err := workflow.InitTask(&task, in.CreatedBy, in.Progress)
	if err != nil {
		return models.Task{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		for _, userID := range in.AssigneeIDs {
			assignment := models.TaskAssignment{TaskID: task.ID, UserID: userID}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// UpdateTask applies field edits to an existing task.
func (s *Store) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		if !in.Priority.IsValid() {
			return models.Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.StartDate != nil {
		task.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		task.EndDate = in.EndDate
	}
	if in.Team != nil {
		task.Team = *in.Team
	}
	if in.EstimatedHours != nil {
		if *in.EstimatedHours < 0 {
			return models.Task{}, fmt.Errorf("%w: estimated hours must not be negative", ErrValidation)
		}
		task.EstimatedHours = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		if *in.ActualHours < 0 {
			return models.Task{}, fmt.Errorf("%w: actual hours must not be negative", ErrValidation)
		}
		task.ActualHours = *in.ActualHours
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		if in.AssigneeIDs == nil {
			return nil
		}
		// Replace the assignment set when one was supplied.
		if err := tx.Unscoped().Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		for _, userID := range in.AssigneeIDs {
			assignment := models.TaskAssignment{TaskID: task.ID, UserID: userID}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// UpdateTaskStatus runs the workflow transition for a task and persists the
// updated record together with its history entry.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, explicitProgress *int, actorID string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}

	entry, err := workflow.Transition(&task, status, actorID, explicitProgress)
	if err != nil {
		return models.Task{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("update task status: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask removes a task. Tasks are never destroyed by the workflow; this
// exists for the external management surface only.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatusCountsByAssignee returns how many tasks assigned to a user sit in
// each status.
func (s *Store) StatusCountsByAssignee(ctx context.Context, userID string) (map[models.TaskStatus]int64, error) {
	type row struct {
		Status models.TaskStatus
		Count  int64
	}

	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Select("tasks.status as status, COUNT(*) as count").
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ? AND task_assignments.deleted_at IS NULL", userID).
		Group("tasks.status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// enrich fills the display-only Creator and Assignees fields.
func (s *Store) enrich(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	var assignments []models.TaskAssignment
	if err := s.db.WithContext(ctx).Where("task_id IN ?", ids).Find(&assignments).Error; err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}

	byTask := make(map[string][]models.Assignee, len(tasks))
	for _, a := range assignments {
		byTask[a.TaskID] = append(byTask[a.TaskID], models.Assignee{
			ID:   a.UserID,
			Name: s.displayName(ctx, a.UserID),
		})
	}

	for i := range tasks {
		tasks[i].Assignees = byTask[tasks[i].ID]
		if tasks[i].Assignees == nil {
			tasks[i].Assignees = []models.Assignee{}
		}
		tasks[i].Creator = models.Assignee{
			ID:   tasks[i].CreatedBy,
			Name: s.displayName(ctx, tasks[i].CreatedBy),
		}
	}
	return nil
}
