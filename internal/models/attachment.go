package models

import (
	"time"

	"gorm.io/gorm"
)

// Attachment stores metadata for a file attached to a task. The blob itself
// lives at FilePath in external storage; deleting attachments never touches
// the owning task.
type Attachment struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TaskID     string    `json:"taskId" gorm:"column:task_id;index;not null"`
	FileName   string    `json:"fileName" gorm:"column:file_name;not null"`
	FileSize   int64     `json:"fileSize" gorm:"column:file_size"`
	FileType   string    `json:"fileType" gorm:"column:file_type"`
	FilePath   string    `json:"filePath" gorm:"column:file_path"`
	UploadedBy string    `json:"uploadedBy" gorm:"column:uploaded_by"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"column:uploaded_at"`
	gorm.Model
}

// TableName specifies the table name for Attachment Model
func (Attachment) TableName() string {
	return "attachments"
}
