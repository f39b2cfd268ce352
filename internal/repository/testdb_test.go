package repository

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and applies the storefront schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPoolFromConnString(ctx, connStr, config.DatabaseConfig{MaxConnections: 20}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.EnsureSchema(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// rawBook is a catalogue row with its images column exactly as stored.
type rawBook struct {
	model.Book
	images *string
}

// seedBooks inserts books directly, bypassing the repository.
func seedBooks(t *testing.T, pool *pgxpool.Pool, books []rawBook) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO books (id, title, author, price, category, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, b := range books {
		_, err := pool.Exec(ctx, query, b.ID, b.Title, b.Author, b.Price, b.Category, b.images, b.CreatedAt)
		require.NoError(t, err)
	}
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func int64Ptr(i int64) *int64 {
	return &i
}
