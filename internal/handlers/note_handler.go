package handlers

import (
	"errors"
	"log"

	"notetaker/internal/models"
	"notetaker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NoteHandler handles HTTP requests for notes. All routes require
// authentication; the owner id always comes from the verified token.
type NoteHandler struct {
	noteService *services.NoteService
	validate    *validator.Validate
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the note routes behind the auth middleware. The
// category and search routes must be registered before /:id so they are not
// swallowed by the parameter match.
func (h *NoteHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	noteRoutes := router.Group("/notes", authRequired)
	noteRoutes.Post("/", h.HandleCreateNote)
	noteRoutes.Get("/", h.HandleGetNotes)
	noteRoutes.Get("/category/:category", h.HandleGetNotesByCategory)
	noteRoutes.Get("/search", h.HandleSearchNotes)
	noteRoutes.Get("/:id", h.HandleGetNoteByID)
	noteRoutes.Put("/:id", h.HandleUpdateNote)
	noteRoutes.Delete("/:id", h.HandleDeleteNote)
}

// CreateNoteRequest represents the request body for note creation.
type CreateNoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

// UpdateNoteRequest represents the request body for a partial note update.
// Absent fields are left unchanged.
type UpdateNoteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// HandleCreateNote creates a note owned by the authenticated user.
func (h *NoteHandler) HandleCreateNote(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create note body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	note, err := h.noteService.CreateNote(userID, req.Title, req.Content, req.Category)
	if err != nil {
		log.Printf("Error creating note for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrEmptyContent),
			errors.Is(err, models.ErrInvalidCategory):
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not create note")
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleGetNotes lists the authenticated user's notes, newest first.
func (h *NoteHandler) HandleGetNotes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	notes, err := h.noteService.GetNotes(userID)
	if err != nil {
		log.Printf("Error listing notes for user %s: %v", userID, err)
		return internalError(c, "Could not retrieve notes")
	}
	return c.JSON(notes)
}

// HandleGetNotesByCategory lists the user's notes filtered to one category.
func (h *NoteHandler) HandleGetNotesByCategory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	category := c.Params("category")

	notes, err := h.noteService.GetNotesByCategory(userID, category)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCategory) {
			return badRequest(c, err.Error())
		}
		log.Printf("Error listing notes for user %s in category %s: %v", userID, category, err)
		return internalError(c, "Could not retrieve notes")
	}
	return c.JSON(notes)
}

// HandleSearchNotes runs a substring search over the user's notes. The query
// parameter is required at the HTTP boundary.
func (h *NoteHandler) HandleSearchNotes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	query := c.Query("query")
	if query == "" {
		return badRequest(c, "Query is required")
	}

	notes, err := h.noteService.SearchNotes(userID, query)
	if err != nil {
		log.Printf("Error searching notes for user %s: %v", userID, err)
		return internalError(c, "Could not search notes")
	}
	return c.JSON(notes)
}

// HandleGetNoteByID returns a single note. A note owned by a different user
// is reported as 404, never revealing its existence.
func (h *NoteHandler) HandleGetNoteByID(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	noteID := c.Params("id")

	note, err := h.noteService.GetNoteByID(noteID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Error getting note %s for user %s: %v", noteID, userID, err)
		return internalError(c, "Could not retrieve note")
	}
	return c.JSON(note)
}

// HandleUpdateNote applies a partial update. Per the API contract, a missing
// or foreign-owned note is folded into 400 on mutation.
func (h *NoteHandler) HandleUpdateNote(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	noteID := c.Params("id")

	var req UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update note body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	note, err := h.noteService.UpdateNote(noteID, userID, req.Title, req.Content, req.Category)
	if err != nil {
		log.Printf("Error updating note %s for user %s: %v", noteID, userID, err)
		switch {
		case errors.Is(err, services.ErrNoteNotFound),
			errors.Is(err, services.ErrEmptyContent),
			errors.Is(err, models.ErrInvalidCategory):
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not update note")
	}
	return c.JSON(note)
}

// HandleDeleteNote removes a note. Like update, a missing or foreign-owned
// note is folded into 400.
func (h *NoteHandler) HandleDeleteNote(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	noteID := c.Params("id")

	if err := h.noteService.DeleteNote(noteID, userID); err != nil {
		log.Printf("Error deleting note %s for user %s: %v", noteID, userID, err)
		if errors.Is(err, services.ErrNoteNotFound) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not delete note")
	}

	return c.JSON(fiber.Map{
		"message": "Note deleted successfully",
	})
}
