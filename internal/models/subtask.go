package models

import (
	"time"

	"gorm.io/gorm"
)

// Subtask is a checklist item belonging to a single task.
// A subtask cannot be marked done without recording who completed it.
type Subtask struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	TaskID      string     `json:"taskId" gorm:"column:task_id;index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Done        bool       `json:"done" gorm:"default:false"`
	CompletedBy string     `json:"completedBy" gorm:"column:completed_by"`
	CompletedAt *time.Time `json:"completedAt" gorm:"column:completed_at"`
	gorm.Model
}

// TableName specifies the table name for Subtask Model
func (Subtask) TableName() string {
	return "subtasks"
}
