package models

import (
	"gorm.io/gorm"
)

// UserRole represents the role a user holds in the firm
type UserRole string

const (
	RoleManager       UserRole = "manager"
	RoleEmployee      UserRole = "employee"
	RoleReviewer      UserRole = "reviewer"
	RoleDataCollector UserRole = "data_collector"
)

// User represents a user in the system
type User struct {
	ID          string   `json:"id" gorm:"primaryKey"`
	Username    string   `json:"username" gorm:"unique;not null"`
	DisplayName string   `json:"displayName" gorm:"column:display_name"`
	Password    string   `json:"-" gorm:"not null"`
	Role        UserRole `json:"role" gorm:"default:'employee'"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
