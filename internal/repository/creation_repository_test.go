package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/domain"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("failed to ping test database: %v", err)
	}

	schema, err := os.ReadFile("../persistence/migrations/001_init.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM creations WHERE user_id LIKE 'pgtest_%'`)
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id LIKE 'pgtest_%'`)
		pool.Close()
	})
	return pool
}

func TestCreationRepository_Postgres(t *testing.T) {
	pool := setupPostgres(t)
	repo := NewCreationRepository(pool)
	ctx := context.Background()

	creation := &domain.Creation{
		UserID:  "pgtest_user",
		Prompt:  "title ideas",
		Content: "1. Go fast",
		Type:    domain.CreationTypeBlogTitle,
		Publish: true,
	}
	require.NoError(t, repo.Create(ctx, creation))
	assert.NotEmpty(t, creation.ID)

	require.NoError(t, repo.UpdateLikes(ctx, creation.ID, []string{"pgtest_other"}))

	got, err := repo.GetByID(ctx, creation.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pgtest_other"}, got.Likes)

	mine, err := repo.ListByUser(ctx, "pgtest_user")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.CreationTypeBlogTitle, mine[0].Type)
}

func TestUserRepository_Postgres(t *testing.T) {
	pool := setupPostgres(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := &domain.User{
		ID:           "pgtest_u1",
		Name:         "Test",
		Email:        "pgtest_u1@example.com",
		PasswordHash: "x",
		Plan:         domain.PlanFree,
	}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.MergeMetadata(ctx, user.ID, map[string]any{domain.MetadataFreeUsage: 3}))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	usage, ok, err := got.FreeUsage()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, usage)

	assert.ErrorIs(t, repo.MergeMetadata(ctx, "pgtest_missing", map[string]any{"a": 1}), pgx.ErrNoRows)
}
