package repositories_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"notetaker/internal/models"
	"notetaker/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var gormDBCounter int64

func setupNoteDB(t *testing.T) *repositories.GORMNoteRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:notetaker_repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&gormDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Note{}))

	return repositories.NewGORMNoteRepository(db)
}

// LIKE metacharacters in search terms must match literally, exactly as the
// in-memory implementation treats them.
func TestGORMNoteRepository_SearchEscapesLikeMetacharacters(t *testing.T) {
	gormRepo := setupNoteDB(t)
	mockRepo := repositories.NewMockNoteRepository()

	now := time.Now()
	seed := []models.Note{
		{UserID: "alice", Title: "Pricing", Content: "priced at 100 dollars", Category: models.CategoryWork, CreatedAt: now, UpdatedAt: now},
		{UserID: "alice", Title: "Discount", Content: "sale is 100% off", Category: models.CategoryWork, CreatedAt: now.Add(-time.Minute), UpdatedAt: now.Add(-time.Minute)},
		{UserID: "alice", Title: "Vars", Content: "rename user_id column", Category: models.CategoryStudy, CreatedAt: now.Add(-2 * time.Minute), UpdatedAt: now.Add(-2 * time.Minute)},
	}
	for i := range seed {
		note := seed[i]
		assert.NoError(t, gormRepo.Create(&note))
		copied := seed[i]
		assert.NoError(t, mockRepo.Create(&copied))
	}

	cases := []struct {
		terms []string
		want  int
	}{
		{[]string{"100%"}, 1},    // only the literal "100%" note, not every "100..."
		{[]string{"user_id"}, 1}, // "_" must not act as a single-char wildcard
		{[]string{"100"}, 2},
		{[]string{`\`}, 0}, // escape char itself never matches spuriously
	}
	for _, tc := range cases {
		fromGorm, err := gormRepo.SearchByUser("alice", tc.terms)
		assert.NoError(t, err)
		fromMock, err := mockRepo.SearchByUser("alice", tc.terms)
		assert.NoError(t, err)

		assert.Len(t, fromGorm, tc.want, "terms %v", tc.terms)
		assert.Equal(t, len(fromMock), len(fromGorm), "backends disagree for terms %v", tc.terms)
	}
}

// The two NoteRepository backends must be interchangeable for plain
// substring searches too.
func TestGORMNoteRepository_SearchAndSemantics(t *testing.T) {
	repo := setupNoteDB(t)

	now := time.Now()
	groceries := models.Note{UserID: "alice", Title: "Groceries", Content: "Buy milk and eggs", Category: models.CategoryPersonal, CreatedAt: now, UpdatedAt: now}
	assert.NoError(t, repo.Create(&groceries))

	notes, err := repo.SearchByUser("alice", []string{"milk", "eggs"})
	assert.NoError(t, err)
	assert.Len(t, notes, 1)

	notes, err = repo.SearchByUser("alice", []string{"milk", "bread"})
	assert.NoError(t, err)
	assert.Empty(t, notes)

	notes, err = repo.SearchByUser("bob", []string{"milk"})
	assert.NoError(t, err)
	assert.Empty(t, notes)
}
