package repository

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/imageref"
	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooks(now time.Time) []rawBook {
	return []rawBook{
		{Book: model.Book{ID: "B001", Title: "Dune", Author: "Frank Herbert", Price: 120000, Category: "Sci-Fi", CreatedAt: now},
			images: strPtr(`["https://img.example.com/dune.jpg"]`)},
		{Book: model.Book{ID: "B002", Title: "Atlas Shrugged", Author: "Ayn Rand", Price: 95000, Category: "Fiction", CreatedAt: now},
			images: strPtr(`https://img.example.com/atlas.jpg`)},
		{Book: model.Book{ID: "B003", Title: "Clean Code", Author: "Robert Martin", Price: 250000, Category: "Tech", CreatedAt: now},
			images: nil},
	}
}

func TestBookRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())
	seedBooks(t, pool, testBooks(time.Now()))

	tests := []struct {
		name        string
		limit       int
		offset      int
		expectedIDs []string
	}{
		{name: "All books ordered by title", limit: 10, offset: 0, expectedIDs: []string{"B002", "B003", "B001"}},
		{name: "First page", limit: 2, offset: 0, expectedIDs: []string{"B002", "B003"}},
		{name: "Second page", limit: 2, offset: 2, expectedIDs: []string{"B001"}},
		{name: "Offset beyond total", limit: 10, offset: 10, expectedIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := repo.GetAll(context.Background(), tt.limit, tt.offset)

			require.NoError(t, err)
			ids := make([]string, len(books))
			for i, b := range books {
				ids[i] = b.ID
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestBookRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())
	seedBooks(t, pool, testBooks(time.Now()))
	ctx := context.Background()

	t.Run("List encoded images", func(t *testing.T) {
		book, err := repo.GetByID(ctx, "B001")

		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, int64(120000), book.Price)
		assert.Equal(t, imageref.Text(`["https://img.example.com/dune.jpg"]`), book.RawImages)
		assert.Equal(t, []string{"https://img.example.com/dune.jpg"}, imageref.Normalize(book.RawImages))
	})

	t.Run("Plain URL images", func(t *testing.T) {
		book, err := repo.GetByID(ctx, "B002")

		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, []string{"https://img.example.com/atlas.jpg"}, imageref.Normalize(book.RawImages))
	})

	t.Run("NULL images", func(t *testing.T) {
		book, err := repo.GetByID(ctx, "B003")

		require.NoError(t, err)
		require.NotNil(t, book)
		assert.True(t, book.RawImages.IsAbsent())
	})

	t.Run("Missing book", func(t *testing.T) {
		book, err := repo.GetByID(ctx, "NOPE")

		require.NoError(t, err)
		assert.Nil(t, book)
	})
}

func TestBookRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())
	seedBooks(t, pool, testBooks(time.Now()))
	ctx := context.Background()

	tests := []struct {
		name          string
		ids           []string
		expectedCount int
	}{
		{name: "All exist", ids: []string{"B001", "B003"}, expectedCount: 2},
		{name: "Some missing", ids: []string{"B001", "B999"}, expectedCount: 1},
		{name: "None exist", ids: []string{"X1", "X2"}, expectedCount: 0},
		{name: "Empty input", ids: []string{}, expectedCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := repo.GetByIDs(ctx, tt.ids)

			require.NoError(t, err)
			assert.NotNil(t, books)
			assert.Len(t, books, tt.expectedCount)
		})
	}
}

func TestBookRepository_CancelledContext(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	books, err := repo.GetAll(ctx, 10, 0)

	require.Error(t, err)
	assert.Nil(t, books)
	assert.Contains(t, err.Error(), "failed to query books")
}
