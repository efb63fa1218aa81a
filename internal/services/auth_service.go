package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"notetaker/internal/models"
	"notetaker/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserProfile is the public view of a user. It never carries the password
// hash.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// AuthResult is returned by Register and Login: the public profile plus a
// freshly issued token.
type AuthResult struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

// AuthService handles registration, login, profile management and the
// issuing/verification of identity tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. tokenTTL is the validity window
// for issued tokens.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account, hashes the password and issues a token.
// No token is issued if the insert fails.
func (s *AuthService) Register(email, username, password string) (*AuthResult, error) {
	if email == "" || username == "" || password == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		// The repository is the sole authority on uniqueness: under
		// concurrent registration exactly one insert wins and the others
		// surface here.
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: profileOf(user), Token: token}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are distinct errors for logging, but both map to the same HTTP
// status upstream.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed for %s: unknown email", email)
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Login failed for %s: password mismatch", email)
		return nil, ErrInvalidPassword
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: profileOf(user), Token: token}, nil
}

// GetProfile returns the public profile for a user id.
func (s *AuthService) GetProfile(userID string) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	profile := profileOf(user)
	return &profile, nil
}

// UpdateProfile changes email and/or username. Empty strings mean "leave
// unchanged"; supplying neither is an error. An email change is re-checked
// for uniqueness by the repository before the write commits.
func (s *AuthService) UpdateProfile(userID, email, username string) (*UserProfile, error) {
	if email == "" && username == "" {
		return nil, ErrNothingToUpdate
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if err := s.userRepo.Update(user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	profile := profileOf(user)
	return &profile, nil
}

// IssueToken mints a signed token carrying the owner's user id and an
// absolute expiry.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies a token string and returns the owner's user id.
// Verification is stateless; tampered or expired tokens fail deterministically.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func profileOf(user *models.User) UserProfile {
	return UserProfile{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}
