package models

import (
	"time"
)

// HistoryEntry is one row of a task's append-only workflow history.
// Entries are only ever inserted and listed in time order.
type HistoryEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"taskId" gorm:"column:task_id;index;not null"`
	Action    string    `json:"action" gorm:"not null"`
	ActorID   string    `json:"actorId" gorm:"column:actor_id"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for HistoryEntry Model
func (HistoryEntry) TableName() string {
	return "task_history"
}
