package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/content-service/internal/domain"
)

// CreationRepository is the append-only log of generation events.
type CreationRepository interface {
	Create(ctx context.Context, creation *domain.Creation) error
	GetByID(ctx context.Context, id string) (*domain.Creation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Creation, error)
	ListPublished(ctx context.Context) ([]domain.Creation, error)
	UpdateLikes(ctx context.Context, id string, likes []string) error
}

type creationRepository struct {
	pool *pgxpool.Pool
}

// NewCreationRepository returns a Postgres-backed implementation.
func NewCreationRepository(pool *pgxpool.Pool) CreationRepository {
	return &creationRepository{pool: pool}
}

func (r *creationRepository) Create(ctx context.Context, creation *domain.Creation) error {
	const query = `
        INSERT INTO creations (user_id, prompt, content, type, publish)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id::text, likes, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		creation.UserID,
		creation.Prompt,
		creation.Content,
		creation.Type,
		creation.Publish,
	).Scan(&creation.ID, &creation.Likes, &creation.CreatedAt, &creation.UpdatedAt)
}

func (r *creationRepository) GetByID(ctx context.Context, id string) (*domain.Creation, error) {
	const query = `
        SELECT id::text, user_id, prompt, content, type, publish, likes, created_at, updated_at
        FROM creations WHERE id::text=$1`

	var creation domain.Creation
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&creation.ID,
		&creation.UserID,
		&creation.Prompt,
		&creation.Content,
		&creation.Type,
		&creation.Publish,
		&creation.Likes,
		&creation.CreatedAt,
		&creation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &creation, nil
}

func (r *creationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Creation, error) {
	const query = `
        SELECT id::text, user_id, prompt, content, type, publish, likes, created_at, updated_at
        FROM creations WHERE user_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectCreations(rows)
}

func (r *creationRepository) ListPublished(ctx context.Context) ([]domain.Creation, error) {
	const query = `
        SELECT id::text, user_id, prompt, content, type, publish, likes, created_at, updated_at
        FROM creations WHERE publish = TRUE ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectCreations(rows)
}

func (r *creationRepository) UpdateLikes(ctx context.Context, id string, likes []string) error {
	const query = `UPDATE creations SET likes=$1, updated_at=NOW() WHERE id::text=$2`

	if likes == nil {
		likes = []string{}
	}
	cmd, err := r.pool.Exec(ctx, query, likes, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectCreations(rows pgx.Rows) ([]domain.Creation, error) {
	defer rows.Close()

	result := make([]domain.Creation, 0)
	for rows.Next() {
		var creation domain.Creation
		if err := rows.Scan(
			&creation.ID,
			&creation.UserID,
			&creation.Prompt,
			&creation.Content,
			&creation.Type,
			&creation.Publish,
			&creation.Likes,
			&creation.CreatedAt,
			&creation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, creation)
	}
	return result, rows.Err()
}
