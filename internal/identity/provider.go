package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

// ErrUserNotFound is returned when the provider has no record for an id.
var ErrUserNotFound = errors.New("user not found")

// Provider is the identity provider surface the service depends on.
type Provider interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error
}

// Directory serves identities from the users table.
type Directory struct {
	users repository.UserRepository
}

// NewDirectory constructs a Directory.
func NewDirectory(users repository.UserRepository) *Directory {
	return &Directory{users: users}
}

// GetUser loads the user and normalizes its plan.
func (d *Directory) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}
	user, err := d.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if user.Plan != domain.PlanExclusive {
		user.Plan = domain.PlanFree
	}
	if user.PrivateMetadata == nil {
		user.PrivateMetadata = map[string]any{}
	}
	return user, nil
}

// UpdateMetadata merges keys into the user's private metadata.
func (d *Directory) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error {
	if len(metadata) == 0 {
		return nil
	}
	if err := d.users.MergeMetadata(ctx, id, metadata); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update metadata %s: %w", id, err)
	}
	return nil
}
