package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tasktrack-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListSubtasks returns a task's subtasks, oldest first.
func (s *Store) ListSubtasks(ctx context.Context, taskID string) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at asc").Find(&subtasks).Error
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return subtasks, nil
}

// AddSubtask appends a checklist item to a task.
func (s *Store) AddSubtask(ctx context.Context, taskID, title string) (models.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return models.Subtask{}, fmt.Errorf("%w: subtask title is required", ErrValidation)
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return models.Subtask{}, err
	}

	subtask := models.Subtask{
		ID:     uuid.NewString(),
		TaskID: taskID,
		Title:  title,
	}
	if err := s.db.WithContext(ctx).Create(&subtask).Error; err != nil {
		return models.Subtask{}, fmt.Errorf("add subtask: %w", err)
	}
	return subtask, nil
}

// ToggleSubtask marks a subtask done or not done. Completing one requires a
// completer reference; unchecking clears it.
func (s *Store) ToggleSubtask(ctx context.Context, id string, done bool, completerID string) (models.Subtask, error) {
	if done && completerID == "" {
		return models.Subtask{}, fmt.Errorf("%w: completing a subtask requires a completer", ErrValidation)
	}

	var subtask models.Subtask
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&subtask).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Subtask{}, ErrNotFound
	}
	if err != nil {
		return models.Subtask{}, fmt.Errorf("get subtask: %w", err)
	}

	subtask.Done = done
	if done {
		now := time.Now()
		subtask.CompletedBy = completerID
		subtask.CompletedAt = &now
	} else {
		subtask.CompletedBy = ""
		subtask.CompletedAt = nil
	}

	if err := s.db.WithContext(ctx).Save(&subtask).Error; err != nil {
		return models.Subtask{}, fmt.Errorf("toggle subtask: %w", err)
	}
	return subtask, nil
}

// ListAttachments returns a task's attachment metadata, oldest first.
func (s *Store) ListAttachments(ctx context.Context, taskID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("uploaded_at asc").Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return attachments, nil
}

// AddAttachment records attachment metadata for a task. The file itself is
// stored externally at FilePath.
func (s *Store) AddAttachment(ctx context.Context, a models.Attachment) (models.Attachment, error) {
	if strings.TrimSpace(a.FileName) == "" {
		return models.Attachment{}, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if a.FileSize < 0 {
		return models.Attachment{}, fmt.Errorf("%w: file size must not be negative", ErrValidation)
	}
	if _, err := s.GetTask(ctx, a.TaskID); err != nil {
		return models.Attachment{}, err
	}

	a.ID = uuid.NewString()
	if a.UploadedAt.IsZero() {
		a.UploadedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return models.Attachment{}, fmt.Errorf("add attachment: %w", err)
	}
	return a, nil
}

// ListComments returns a task's comments ordered by timestamp ascending with
// author names joined.
func (s *Store) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at asc").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	for i := range comments {
		comments[i].Author = models.Assignee{
			ID:   comments[i].AuthorID,
			Name: s.displayName(ctx, comments[i].AuthorID),
		}
	}
	return comments, nil
}

// AddComment appends a comment to a task.
func (s *Store) AddComment(ctx context.Context, taskID, authorID, body string) (models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return models.Comment{}, fmt.Errorf("%w: comment body is required", ErrValidation)
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		ID:       uuid.NewString(),
		TaskID:   taskID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return models.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	comment.Author = models.Assignee{ID: authorID, Name: s.displayName(ctx, authorID)}
	return comment, nil
}

// ListHistory returns a task's workflow history, oldest first.
func (s *Store) ListHistory(ctx context.Context, taskID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at asc").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
