package handlers

import (
	"errors"
	"fmt"
	"log"

	"notetaker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and profiles.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the auth routes. Register and login are public;
// the profile routes sit behind the auth middleware.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/profile", authRequired, h.HandleGetProfile)
	authRoutes.Put("/profile", authRequired, h.HandleUpdateProfile)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the request body for a profile update.
// Both fields are optional, but at least one must be supplied.
type UpdateProfileRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username"`
}

// HandleRegister handles new user registration. A duplicate email is
// reported as 400 with a descriptive message.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Email, err)
		switch {
		case errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrMissingFields):
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleLogin handles user login. Unknown email and wrong password both come
// back as 401; the distinction is logged by the service, not surfaced here.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrInvalidPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return internalError(c, "Could not log in")
	}

	return c.JSON(result)
}

// HandleGetProfile returns the authenticated user's profile.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		log.Printf("Error getting profile for user %s: %v", userID, err)
		if errors.Is(err, services.ErrUserNotFound) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not load profile")
	}

	return c.JSON(profile)
}

// HandleUpdateProfile changes the authenticated user's email and/or username.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	profile, err := h.authService.UpdateProfile(userID, req.Email, req.Username)
	if err != nil {
		log.Printf("Error updating profile for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrNothingToUpdate),
			errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrUserNotFound):
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not update profile")
	}

	return c.JSON(profile)
}

// validationFailed renders validator errors as a 400 with a per-field map.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation failed",
		"fields": errorMessages,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
