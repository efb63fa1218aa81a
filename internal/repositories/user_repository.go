package repositories

import "notetaker/internal/models"

// UserRepository defines the interface for user data access. It is the sole
// authority for email uniqueness: Create and Update must treat the
// check-then-write sequence as atomic per email value.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}
