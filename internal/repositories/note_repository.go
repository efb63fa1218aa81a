package repositories

import "notetaker/internal/models"

// NoteRepository defines the interface for note data access. Every read and
// write is scoped by the owner's user id: a note that exists but belongs to
// someone else behaves exactly like a note that does not exist. Listings are
// ordered newest-created-first.
type NoteRepository interface {
	Create(note *models.Note) error
	GetByUser(userID string) ([]models.Note, error)
	GetByUserAndCategory(userID, category string) ([]models.Note, error)
	GetByID(id, userID string) (*models.Note, error)
	Update(note *models.Note) error
	Delete(id, userID string) error
	// SearchByUser returns the owner's notes whose lower-cased content+title
	// contains every term. Terms are expected to be lower-cased already.
	SearchByUser(userID string, terms []string) ([]models.Note, error)
}
