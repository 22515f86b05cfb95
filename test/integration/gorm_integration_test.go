package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/model"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/internal/repository/specification"
	"bookapp-ai-be/internal/repository/unitofwork"
	"bookapp-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error)
	require.NoError(t, gormDB.AutoMigrate(&model.BookCorpus{}))
	return gormDB
}

// unitVector returns a 768-dim vector with a single hot axis.
func unitVector(axis int) []float32 {
	v := make([]float32, 768)
	v[axis] = 1
	return v
}

func TestBookCorpusRepository(t *testing.T) {
	gormDB := openTestDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	repo := uowFactory.NewUnitOfWork(ctx).BookCorpusRepository()

	suffix := uuid.New().String()[:8]
	isbnA := "it-a-" + suffix
	isbnB := "it-b-" + suffix
	t.Cleanup(func() {
		gormDB.Where("isbn IN ?", []string{isbnA, isbnB}).Delete(&model.BookCorpus{})
	})

	bookA := &entity.BookCorpus{
		Title:     "통합 테스트 소설",
		Contents:  "integration test contents",
		Isbn:      isbnA,
		Authors:   "한 강",
		Keyword:   "it-keyword-" + suffix,
		Tags:      []string{"소설"},
		Embedding: unitVector(0),
	}
	bookB := &entity.BookCorpus{
		Title:     "다른 책",
		Isbn:      isbnB,
		Authors:   "김영하",
		Keyword:   "user_added",
		Embedding: unitVector(1),
	}

	t.Run("Create and duplicate", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, bookA))
		require.NoError(t, repo.Create(ctx, bookB))

		dup := *bookA
		dup.Id = 0
		err := repo.Create(ctx, &dup)
		assert.ErrorIs(t, err, contract.ErrDuplicateIsbn)

		exists, err := repo.ExistsByIsbn(ctx, isbnA)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Similarity search", func(t *testing.T) {
		rows, err := repo.SearchSimilarWithScore(ctx, unitVector(0), 0.9, nil, 10)
		require.NoError(t, err)

		var found bool
		for _, row := range rows {
			assert.NotEqual(t, isbnB, row.Book.Isbn)
			if row.Book.Isbn == isbnA {
				found = true
				assert.InDelta(t, 1.0, row.Similarity, 1e-6)
			}
		}
		assert.True(t, found)
	})

	t.Run("Keyword match ignores threshold", func(t *testing.T) {
		rows, err := repo.SearchSimilarWithScore(ctx, unitVector(1), 0.99, []string{bookA.Keyword}, 10)
		require.NoError(t, err)

		isbns := map[string]bool{}
		for _, row := range rows {
			isbns[row.Book.Isbn] = true
		}
		assert.True(t, isbns[isbnA])
	})

	t.Run("Author pattern", func(t *testing.T) {
		books, err := repo.SearchByAuthorPattern(ctx, "%한강%", []string{isbnB}, 10)
		require.NoError(t, err)

		var found bool
		for _, b := range books {
			if b.Isbn == isbnA {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("Update classification", func(t *testing.T) {
		require.NoError(t, repo.UpdateClassification(ctx, isbnB, "에세이", []string{"에세이", "위로"}, true))

		book, err := repo.FindOne(ctx, specification.ByIsbn{Isbn: isbnB})
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, "에세이", book.Keyword)
		assert.Equal(t, []string{"에세이", "위로"}, book.Tags)
		assert.True(t, book.UsedLLM)
	})

	t.Run("Missing book", func(t *testing.T) {
		book, err := repo.FindOne(ctx, specification.ByIsbn{Isbn: "missing-" + suffix})
		assert.NoError(t, err)
		assert.Nil(t, book)
	})
}
