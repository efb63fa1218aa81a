package models

import (
	"errors"
	"strings"
	"time"
)

// Note categories. Stored lower-cased; anything outside this set is rejected
// at the boundary.
const (
	CategoryWork     = "work"
	CategoryStudy    = "study"
	CategoryPersonal = "personal"
)

// ErrInvalidCategory is returned when a category string is not one of the
// three known values.
var ErrInvalidCategory = errors.New("invalid category")

// Note represents a single note owned by exactly one user. UserID is set at
// creation and never changes.
type Note struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	Title     string    `json:"title"`
	Content   string    `json:"content" validate:"required"`
	Category  string    `json:"category" gorm:"type:varchar(16)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeCategory lower-cases a client-supplied category and checks it
// against the closed set. An empty string defaults to CategoryPersonal.
func NormalizeCategory(category string) (string, error) {
	if category == "" {
		return CategoryPersonal, nil
	}
	normalized := strings.ToLower(category)
	switch normalized {
	case CategoryWork, CategoryStudy, CategoryPersonal:
		return normalized, nil
	}
	return "", ErrInvalidCategory
}
