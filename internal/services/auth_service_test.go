package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"notetaker/internal/models"
	"notetaker/internal/repositories"
	"notetaker/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	// Successful registration returns a profile and a verifiable token.
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	result, err := authService.Register("alice@example.com", "alice", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotEmpty(t, result.User.ID)
	assert.NotEmpty(t, result.Token)

	userID, err := authService.ValidateToken(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
	mockRepo.AssertExpectations(t)

	// The stored user must carry a bcrypt hash, never the plaintext.
	createdUser := mockRepo.Calls[0].Arguments.Get(0).(*models.User)
	assert.NotEqual(t, "password123", createdUser.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdUser.Password), []byte("password123")))

	// Duplicate email from the repository surfaces as ErrEmailTaken and no
	// token is issued.
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateEmail).Once()
	result, err = authService.Register("alice@example.com", "alice2", "password123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	assert.Nil(t, result)
	mockRepo.AssertExpectations(t)

	// Missing fields fail before the repository is touched.
	_, err = authService.Register("", "alice", "password123")
	assert.ErrorIs(t, err, services.ErrMissingFields)
	_, err = authService.Register("alice@example.com", "", "password123")
	assert.ErrorIs(t, err, services.ErrMissingFields)
	_, err = authService.Register("alice@example.com", "alice", "")
	assert.ErrorIs(t, err, services.ErrMissingFields)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "alice@example.com",
		Username: "alice",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	result, err := authService.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)

	// The issued token carries the owner id in its claims.
	parsedToken, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	mockRepo.AssertExpectations(t)

	// Unknown email
	mockRepo.On("GetByEmail", "bob@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Login("bob@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, err = authService.Login("alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidPassword)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	token, err := authService.IssueToken("user-123")
	assert.NoError(t, err)

	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Garbage input
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with a different secret
	otherService := services.NewAuthService(mockRepo, "other_secret", time.Hour)
	foreignToken, _ := otherService.IssueToken("user-123")
	_, err = authService.ValidateToken(foreignToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Expired token: issue with a negative TTL so the expiry instant has
	// already passed.
	expiredService := services.NewAuthService(mockRepo, testJWTSecret, -time.Hour)
	expiredToken, _ := expiredService.IssueToken("user-123")
	_, err = authService.ValidateToken(expiredToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token without a user_id claim
	anonToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	anonTokenString, _ := anonToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(anonTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_GetProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{
		ID:       "user-123",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "some-hash",
	}

	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	profile, err := authService.GetProfile("user-123")
	assert.NoError(t, err)
	assert.Equal(t, services.UserProfile{ID: "user-123", Email: "alice@example.com", Username: "alice"}, *profile)

	mockRepo.On("GetByID", "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.GetProfile("missing")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	// Neither field supplied
	_, err := authService.UpdateProfile("user-123", "", "")
	assert.ErrorIs(t, err, services.ErrNothingToUpdate)

	// Username only: email stays as stored.
	user := &models.User{ID: "user-123", Email: "alice@example.com", Username: "alice"}
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "alice@example.com" && u.Username == "alice2"
	})).Return(nil).Once()

	profile, err := authService.UpdateProfile("user-123", "", "alice2")
	assert.NoError(t, err)
	assert.Equal(t, "alice2", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
	mockRepo.AssertExpectations(t)

	// Email change colliding with another account
	user = &models.User{ID: "user-123", Email: "alice@example.com", Username: "alice"}
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateEmail).Once()

	_, err = authService.UpdateProfile("user-123", "taken@example.com", "")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Unknown user
	mockRepo.On("GetByID", "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.UpdateProfile("missing", "new@example.com", "")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}
