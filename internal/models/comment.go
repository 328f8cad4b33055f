package models

import (
	"gorm.io/gorm"
)

// Comment is a discussion entry on a task, displayed oldest first.
type Comment struct {
	ID       string   `json:"id" gorm:"primaryKey"`
	TaskID   string   `json:"taskId" gorm:"column:task_id;index;not null"`
	AuthorID string   `json:"-" gorm:"column:author_id"`
	Author   Assignee `json:"author" gorm:"-"`
	Body     string   `json:"body" gorm:"not null"`
	gorm.Model
}

// TableName specifies the table name for Comment Model
func (Comment) TableName() string {
	return "comments"
}
