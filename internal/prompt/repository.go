package prompt

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkravtsov/contentgen/internal/models"
)

// Repository is the persistence boundary for prompts and their versions.
type Repository interface {
	CreatePrompt(ctx context.Context, p *models.Prompt) error
	GetPrompt(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	ListPrompts(ctx context.Context, activeOnly bool) ([]models.Prompt, error)
	UpdatePrompt(ctx context.Context, p *models.Prompt) error
	DeletePrompt(ctx context.Context, id uuid.UUID) error
	CountVersions(ctx context.Context, promptID uuid.UUID) (int64, error)

	// CreateVersion assigns the next version number within the prompt's
	// scope and inserts the row. The read-then-assign must be serialized
	// against concurrent creates in the same scope; the returned entity
	// has ID, VersionNumber and CreatedAt populated.
	CreateVersion(ctx context.Context, v *models.PromptVersion) error
	GetVersion(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error)
	ListVersions(ctx context.Context, promptID uuid.UUID) ([]models.PromptVersion, error)
	MaxVersionNumber(ctx context.Context, promptID uuid.UUID) (int, error)
	// UpdateVersionMeta mutates description and author in place, leaving
	// content, version number and created_at untouched.
	UpdateVersionMeta(ctx context.Context, id uuid.UUID, description, author string) error
	DeleteVersion(ctx context.Context, id uuid.UUID) error
}

// UsageCounter reports how many generated-content rows reference a version.
// Owned by the generation side; the version store only reads it for the
// delete guard.
type UsageCounter interface {
	CountByVersion(ctx context.Context, versionID uuid.UUID) (int64, error)
}
