package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/models"
	"github.com/mkravtsov/contentgen/internal/prompt"
)

// Filter narrows generated-content listings.
type Filter struct {
	PromptVersionID *uuid.UUID
	SubjectType     string
	SubjectID       int64
	Status          models.GenerationStatus
	Limit           int
	Offset          int
}

// Repository is the persistence boundary for generated content. It also
// serves the version store's delete guard (prompt.UsageCounter) and the
// stats aggregator's single-pass feed (prompt.UsageReader).
type Repository interface {
	Create(ctx context.Context, gc *models.GeneratedContent) error
	// UpsertByTask inserts the row or, when a row correlated to the same
	// task already exists, updates its generated_data and status in place.
	UpsertByTask(ctx context.Context, gc *models.GeneratedContent) error
	Get(ctx context.Context, id uuid.UUID) (*models.GeneratedContent, error)
	List(ctx context.Context, f Filter) ([]models.GeneratedContent, error)
	CountByVersion(ctx context.Context, versionID uuid.UUID) (int64, error)
	UsageByVersion(ctx context.Context, versionID uuid.UUID) (prompt.UsageRow, error)
	// Review sets reviewed_at, rating and the REVIEWED status in one
	// atomic update.
	Review(ctx context.Context, id uuid.UUID, rating int, reviewedAt time.Time) error
}
