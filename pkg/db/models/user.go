package models

import "time"

// User represents an account able to log in. IsAdmin gates pet management.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;type:varchar(80);not null;uniqueIndex"`
	Email        string    `gorm:"column:email;type:varchar(120);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
