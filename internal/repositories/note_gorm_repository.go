package repositories

import (
	"errors"
	"fmt"
	"strings"

	"notetaker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNoteRepository is a GORM implementation of NoteRepository. Every query
// carries the owner's user id in its WHERE clause, so notes belonging to
// other users are invisible at the SQL level.
type GORMNoteRepository struct {
	db *gorm.DB
}

// NewGORMNoteRepository creates a new instance of GORMNoteRepository.
func NewGORMNoteRepository(db *gorm.DB) *GORMNoteRepository {
	return &GORMNoteRepository{
		db: db,
	}
}

// Create inserts a new note, generating an id when absent.
func (r *GORMNoteRepository) Create(note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if err := r.db.Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// GetByUser retrieves all notes owned by a user, newest first.
func (r *GORMNoteRepository) GetByUser(userID string) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to get notes for user %s: %w", userID, err)
	}
	return notes, nil
}

// GetByUserAndCategory retrieves a user's notes in one category, newest first.
func (r *GORMNoteRepository) GetByUserAndCategory(userID, category string) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	if err := r.db.Where("user_id = ? AND category = ?", userID, category).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to get notes for user %s in category %s: %w", userID, category, err)
	}
	return notes, nil
}

// GetByID retrieves a single note by id, scoped to its owner. A note owned
// by someone else is reported as not found.
func (r *GORMNoteRepository) GetByID(id, userID string) (*models.Note, error) {
	var note models.Note
	if err := r.db.First(&note, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return &note, nil
}

// Update persists changes to a note's mutable fields. The WHERE clause pins
// both id and owner, so a foreign-owned note is never touched.
func (r *GORMNoteRepository) Update(note *models.Note) error {
	res := r.db.Model(&models.Note{}).
		Where("id = ? AND user_id = ?", note.ID, note.UserID).
		Select("title", "content", "category", "updated_at").
		Updates(note)
	if res.Error != nil {
		return fmt.Errorf("failed to update note %s: %w", note.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note, scoped to its owner.
func (r *GORMNoteRepository) Delete(id, userID string) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Note{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// likeEscaper neutralizes LIKE metacharacters so search terms always match
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByUser matches each term as a substring of the lower-cased
// concatenation of content and title. All terms must match.
func (r *GORMNoteRepository) SearchByUser(userID string, terms []string) ([]models.Note, error) {
	query := r.db.Where("user_id = ?", userID)
	for _, term := range terms {
		query = query.Where(`LOWER(content || title) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(term)+"%")
	}
	notes := make([]models.Note, 0)
	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to search notes for user %s: %w", userID, err)
	}
	return notes, nil
}
