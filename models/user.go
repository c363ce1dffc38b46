package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // empty for OAuth users
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
}
