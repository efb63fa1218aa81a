package models

import "time"

// User represents a registered account. The password field only ever holds
// the bcrypt hash, never the plaintext, and is excluded from JSON output.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Username  string    `json:"username" gorm:"type:varchar(100)" validate:"required"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
