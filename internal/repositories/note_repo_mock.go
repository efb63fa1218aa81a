package repositories

import (
	"sort"
	"strings"
	"sync"

	"notetaker/internal/models"

	"github.com/google/uuid"
)

// MockNoteRepository is an in-memory implementation of NoteRepository.
type MockNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]models.Note
}

// NewMockNoteRepository creates a new instance of MockNoteRepository.
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		notes: make(map[string]models.Note),
	}
}

// Create adds a new note.
func (r *MockNoteRepository) Create(note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	r.notes[note.ID] = *note
	return nil
}

// GetByUser returns all notes owned by a user, newest first.
func (r *MockNoteRepository) GetByUser(userID string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(n models.Note) bool {
		return n.UserID == userID
	}), nil
}

// GetByUserAndCategory returns a user's notes in one category, newest first.
func (r *MockNoteRepository) GetByUserAndCategory(userID, category string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(n models.Note) bool {
		return n.UserID == userID && n.Category == category
	}), nil
}

// GetByID returns a note by id, scoped to its owner. A note owned by someone
// else is reported as not found.
func (r *MockNoteRepository) GetByID(id, userID string) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != userID {
		return nil, ErrNotFound
	}
	return &note, nil
}

// Update replaces a stored note, scoped to its owner.
func (r *MockNoteRepository) Update(note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.notes[note.ID]
	if !ok || current.UserID != note.UserID {
		return ErrNotFound
	}
	r.notes[note.ID] = *note
	return nil
}

// Delete removes a note, scoped to its owner.
func (r *MockNoteRepository) Delete(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != userID {
		return ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

// SearchByUser matches each term as a substring of the lower-cased
// concatenation of content and title. All terms must match.
func (r *MockNoteRepository) SearchByUser(userID string, terms []string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(n models.Note) bool {
		if n.UserID != userID {
			return false
		}
		haystack := strings.ToLower(n.Content + n.Title)
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				return false
			}
		}
		return true
	}), nil
}

// collect gathers matching notes sorted newest-created-first. Callers must
// hold at least the read lock.
func (r *MockNoteRepository) collect(match func(models.Note) bool) []models.Note {
	result := make([]models.Note, 0)
	for _, n := range r.notes {
		if match(n) {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
