package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusAssigned   TaskStatus = "assigned"
	StatusInProgress TaskStatus = "in_progress"
	StatusPending    TaskStatus = "pending"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
	StatusDelivered  TaskStatus = "delivered"
	StatusRejected   TaskStatus = "rejected"
)

// AllStatuses returns the closed set of valid task statuses.
func AllStatuses() []TaskStatus {
	return []TaskStatus{
		StatusNotStarted,
		StatusAssigned,
		StatusInProgress,
		StatusPending,
		StatusReview,
		StatusCompleted,
		StatusDelivered,
		StatusRejected,
	}
}

// IsValid reports whether the status belongs to the closed set.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusAssigned, StatusInProgress, StatusPending,
		StatusReview, StatusCompleted, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// IsValid reports whether the priority belongs to the closed set.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Assignee is the joined display shape of an assigned user.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task represents a task in the system
type Task struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'not_started'"`
	Priority    TaskPriority `json:"priority" gorm:"default:'medium'"`
	DueDate     *time.Time   `json:"dueDate" gorm:"column:due_date"`
	StartDate   *time.Time   `json:"startDate" gorm:"column:start_date"`
	EndDate     *time.Time   `json:"endDate" gorm:"column:end_date"`
	Team        string       `json:"team"`
	CreatedBy   string       `json:"-" gorm:"column:created_by;index"`
	Creator     Assignee     `json:"createdBy" gorm:"-"`
	Assignees   []Assignee   `json:"assignees" gorm:"-"`

	EstimatedHours float64 `json:"estimatedHours" gorm:"default:0"`
	ActualHours    float64 `json:"actualHours" gorm:"default:0"`

	// Progress is a 0-100 percentage. ProgressExplicit marks a value the
	// caller stored directly; derived defaults never overwrite it.
	Progress         int  `json:"progress" gorm:"default:0"`
	ProgressExplicit bool `json:"-" gorm:"column:progress_explicit;default:false"`

	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// TaskAssignment links a task to an assigned user (many-to-many).
type TaskAssignment struct {
	TaskID string `json:"taskId" gorm:"column:task_id;uniqueIndex:idx_task_user"`
	UserID string `json:"userId" gorm:"column:user_id;uniqueIndex:idx_task_user"`
	gorm.Model
}

// TableName specifies the table name for TaskAssignment Model
func (TaskAssignment) TableName() string {
	return "task_assignments"
}
