package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"notetaker/internal/models"
	"notetaker/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher emits note lifecycle events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// NoteService handles business logic for notes. Every operation takes the
// owner's user id, resolved from the verified token by the middleware, never
// from client-supplied note data.
type NoteService struct {
	noteRepo repositories.NoteRepository
	events   EventPublisher
}

// NewNoteService creates a new NoteService. events may be nil, in which case
// event publishing is skipped.
func NewNoteService(noteRepo repositories.NoteRepository, events EventPublisher) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		events:   events,
	}
}

// CreateNote creates a note for the given owner. Content is required; the
// category defaults to personal and is normalized to the closed set.
func (s *NoteService) CreateNote(userID, title, content, category string) (*models.Note, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	normalized, err := models.NormalizeCategory(category)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &models.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Category:  normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.publishEvent("note.created", note)
	return note, nil
}

// GetNotes returns all of the owner's notes, newest first.
func (s *NoteService) GetNotes(userID string) ([]models.Note, error) {
	return s.noteRepo.GetByUser(userID)
}

// GetNotesByCategory returns the owner's notes in one category, newest first.
func (s *NoteService) GetNotesByCategory(userID, category string) ([]models.Note, error) {
	normalized, err := models.NormalizeCategory(category)
	if err != nil {
		return nil, err
	}
	return s.noteRepo.GetByUserAndCategory(userID, normalized)
}

// GetNoteByID returns a single note scoped to its owner.
func (s *NoteService) GetNoteByID(noteID, userID string) (*models.Note, error) {
	note, err := s.noteRepo.GetByID(noteID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note %s: %w", noteID, err)
	}
	return note, nil
}

// UpdateNote applies a partial update: nil fields are left unchanged. The
// note's id and owner are immutable; UpdatedAt is refreshed even when no
// field is supplied.
func (s *NoteService) UpdateNote(noteID, userID string, title, content, category *string) (*models.Note, error) {
	note, err := s.noteRepo.GetByID(noteID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to load note %s: %w", noteID, err)
	}

	if title != nil {
		note.Title = *title
	}
	if content != nil {
		if *content == "" {
			return nil, ErrEmptyContent
		}
		note.Content = *content
	}
	if category != nil {
		normalized, err := models.NormalizeCategory(*category)
		if err != nil {
			return nil, err
		}
		note.Category = normalized
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(note); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note %s: %w", noteID, err)
	}

	s.publishEvent("note.updated", note)
	return note, nil
}

// DeleteNote removes a note scoped to its owner.
func (s *NoteService) DeleteNote(noteID, userID string) error {
	note, err := s.noteRepo.GetByID(noteID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to load note %s: %w", noteID, err)
	}

	if err := s.noteRepo.Delete(noteID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note %s: %w", noteID, err)
	}

	s.publishEvent("note.deleted", note)
	return nil
}

// SearchNotes lower-cases the query and splits it on whitespace; a note
// matches only if every term is a substring of its lower-cased content+title.
// An empty query returns the unfiltered owner listing.
func (s *NoteService) SearchNotes(userID, query string) ([]models.Note, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return s.noteRepo.GetByUser(userID)
	}
	return s.noteRepo.SearchByUser(userID, terms)
}

// publishEvent emits a note lifecycle event. Publishing is fire-and-forget:
// a failure is logged and never fails the request.
func (s *NoteService) publishEvent(eventType string, note *models.Note) {
	if s.events == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"noteID":   note.ID,
		"userID":   note.UserID,
		"category": note.Category,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for note %s: %v", eventType, note.ID, err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for note %s: %v", eventType, note.ID, err)
	}
}
