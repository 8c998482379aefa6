package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/domain"
)

const sqliteCreationsSchema = `
CREATE TABLE IF NOT EXISTS creations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    prompt TEXT NOT NULL,
    content TEXT NOT NULL,
    type TEXT NOT NULL,
    publish INTEGER NOT NULL DEFAULT 0,
    likes TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_creations_user ON creations(user_id);
`

type sqliteCreationRepository struct {
	db *sql.DB
}

// EnsureSQLiteSchema creates the creations table when missing.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, sqliteCreationsSchema)
	return err
}

// NewSQLiteCreationRepository returns a creation store for local development.
func NewSQLiteCreationRepository(db *sql.DB) CreationRepository {
	return &sqliteCreationRepository{db: db}
}

func (r *sqliteCreationRepository) Create(ctx context.Context, creation *domain.Creation) error {
	const query = `
        INSERT INTO creations (id, user_id, prompt, content, type, publish, likes, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, '[]', ?, ?)`

	now := time.Now().UTC()
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query,
		id,
		creation.UserID,
		creation.Prompt,
		creation.Content,
		string(creation.Type),
		creation.Publish,
		now,
		now,
	); err != nil {
		return err
	}
	creation.ID = id
	creation.Likes = []string{}
	creation.CreatedAt = now
	creation.UpdatedAt = now
	return nil
}

func (r *sqliteCreationRepository) GetByID(ctx context.Context, id string) (*domain.Creation, error) {
	const query = `
        SELECT id, user_id, prompt, content, type, publish, likes, created_at, updated_at
        FROM creations WHERE id = ?`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	items, err := scanSQLiteCreations(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, sql.ErrNoRows
	}
	return &items[0], nil
}

func (r *sqliteCreationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Creation, error) {
	const query = `
        SELECT id, user_id, prompt, content, type, publish, likes, created_at, updated_at
        FROM creations WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanSQLiteCreations(rows)
}

func (r *sqliteCreationRepository) ListPublished(ctx context.Context) ([]domain.Creation, error) {
	const query = `
        SELECT id, user_id, prompt, content, type, publish, likes, created_at, updated_at
        FROM creations WHERE publish = 1 ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanSQLiteCreations(rows)
}

func (r *sqliteCreationRepository) UpdateLikes(ctx context.Context, id string, likes []string) error {
	if likes == nil {
		likes = []string{}
	}
	encoded, err := json.Marshal(likes)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE creations SET likes = ?, updated_at = ? WHERE id = ?`,
		string(encoded), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanSQLiteCreations(rows *sql.Rows) ([]domain.Creation, error) {
	defer rows.Close()

	result := make([]domain.Creation, 0)
	for rows.Next() {
		var (
			creation domain.Creation
			kind     string
			likes    string
		)
		if err := rows.Scan(
			&creation.ID,
			&creation.UserID,
			&creation.Prompt,
			&creation.Content,
			&kind,
			&creation.Publish,
			&likes,
			&creation.CreatedAt,
			&creation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		creation.Type = domain.CreationType(kind)
		if err := json.Unmarshal([]byte(likes), &creation.Likes); err != nil {
			return nil, err
		}
		result = append(result, creation)
	}
	return result, rows.Err()
}
