package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/models"
	"github.com/mkravtsov/contentgen/internal/subject"
)

// VersionResolver is the slice of the version store the generation side
// needs.
type VersionResolver interface {
	GetVersion(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error)
}

// StatsInvalidator drops cached usage stats after a content write.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, versionID uuid.UUID)
}

// Linker turns completed pipeline tasks into GeneratedContent rows.
//
// Incomplete or unresolvable task context is a data-quality condition in an
// external system, not a bug here: those paths return (nil, nil) with a
// logged diagnostic and no row is written. Only unexpected internal errors
// (storage failures) are returned.
type Linker struct {
	versions VersionResolver
	subjects *subject.Registry
	repo     Repository
	stats    StatsInvalidator
}

func NewLinker(versions VersionResolver, subjects *subject.Registry, repo Repository, stats StatsInvalidator) *Linker {
	return &Linker{versions: versions, subjects: subjects, repo: repo, stats: stats}
}

func (l *Linker) LinkResult(ctx context.Context, task *CompletedTask) (*models.GeneratedContent, error) {
	versionIDRaw := contextString(task.Context, "prompt_version_id")
	if versionIDRaw == "" {
		slog.Warn("prompt_version_id missing from task context, skipping linkage", "task_id", task.ID)
		return nil, nil
	}

	versionID, err := uuid.Parse(versionIDRaw)
	if err != nil {
		slog.Warn("malformed prompt_version_id in task context, skipping linkage",
			"task_id", task.ID, "prompt_version_id", versionIDRaw)
		return nil, nil
	}

	version, err := l.versions.GetVersion(ctx, versionID)
	if err != nil {
		var nferr *apperr.NotFoundError
		if errors.As(err, &nferr) {
			slog.Warn("prompt version not found, skipping linkage",
				"task_id", task.ID, "prompt_version_id", versionID)
			return nil, nil
		}
		return nil, fmt.Errorf("resolve prompt version: %w", err)
	}

	subjectType := contextString(task.Context, "subject_type")
	subjectID := contextInt64(task.Context, "subject_id")
	if subjectType == "" || subjectID <= 0 {
		slog.Warn("subject reference missing from task context, skipping linkage", "task_id", task.ID)
		return nil, nil
	}
	if !l.subjects.Known(subjectType) {
		slog.Warn("unknown subject type, skipping linkage",
			"task_id", task.ID, "subject_type", subjectType)
		return nil, nil
	}

	gc := &models.GeneratedContent{
		TaskID:          task.ID,
		PromptVersionID: &version.ID,
		SubjectType:     subjectType,
		SubjectID:       subjectID,
		GeneratedData:   task.Result,
		Status:          MapTaskStatus(task.Status),
	}
	if err := l.repo.UpsertByTask(ctx, gc); err != nil {
		return nil, fmt.Errorf("store generation result: %w", err)
	}

	if l.stats != nil {
		l.stats.Invalidate(ctx, version.ID)
	}

	slog.Info("linked generation result",
		"task_id", task.ID,
		"content_id", gc.ID,
		"prompt_version", version.VersionNumber,
		"status", gc.Status,
	)
	return gc, nil
}
