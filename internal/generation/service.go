package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/models"
	"github.com/mkravtsov/contentgen/internal/queue"
	"github.com/mkravtsov/contentgen/internal/subject"
)

// Enqueuer pushes generation work onto the task queue.
type Enqueuer interface {
	EnqueueGenerationRun(payload queue.GenerationRunPayload) error
}

// Service coordinates generation submissions and review workflow.
type Service struct {
	versions VersionResolver
	subjects *subject.Registry
	repo     Repository
	enq      Enqueuer
	stats    StatsInvalidator
}

func NewService(versions VersionResolver, subjects *subject.Registry, repo Repository, enq Enqueuer, stats StatsInvalidator) *Service {
	return &Service{
		versions: versions,
		subjects: subjects,
		repo:     repo,
		enq:      enq,
		stats:    stats,
	}
}

// SubmitRequest describes a generation run to start.
type SubmitRequest struct {
	PromptVersionID  uuid.UUID `json:"prompt_version_id"`
	SubjectType      string    `json:"subject_type"`
	SubjectID        int64     `json:"subject_id"`
	Action           string    `json:"action"`
	AdditionalPrompt string    `json:"additional_prompt"`
}

// SubmitResult identifies the queued run and its pending content row.
type SubmitResult struct {
	TaskID    uuid.UUID `json:"task_id"`
	ContentID uuid.UUID `json:"content_id"`
}

// Submit validates the request, records a pending content row and enqueues
// the generation task.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	action, err := ParseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if req.SubjectID <= 0 {
		return nil, apperr.Validation("subject_id", "must be a positive identifier")
	}

	version, err := s.versions.GetVersion(ctx, req.PromptVersionID)
	if err != nil {
		return nil, err
	}

	subj, err := s.subjects.Resolve(ctx, req.SubjectType, req.SubjectID)
	if err != nil {
		return nil, err
	}

	taskID := uuid.New()
	versionID := version.ID
	content := &models.GeneratedContent{
		TaskID:          taskID,
		PromptVersionID: &versionID,
		SubjectType:     subj.Type,
		SubjectID:       subj.ID,
		Status:          models.StatusPending,
	}
	if err := s.repo.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("create pending content: %w", err)
	}

	payload := queue.GenerationRunPayload{
		TaskID:           taskID.String(),
		PromptVersionID:  versionID.String(),
		SubjectType:      subj.Type,
		SubjectID:        subj.ID,
		Action:           string(action),
		Endpoint:         action.Endpoint(),
		PromptContent:    version.Content,
		AdditionalPrompt: req.AdditionalPrompt,
		Context:          action.BuildContext(subj),
	}
	if err := s.enq.EnqueueGenerationRun(payload); err != nil {
		// No task was queued, so the pending row would sit forever.
		// Settle it as a failure rather than leave a phantom pending.
		content.Status = models.StatusFailure
		content.GeneratedData, _ = json.Marshal(map[string]string{"error": "enqueue failed: " + err.Error()})
		if upErr := s.repo.UpsertByTask(ctx, content); upErr != nil {
			slog.Error("failed to settle unqueued generation row",
				"task_id", taskID, "content_id", content.ID, "error", upErr)
		}
		return nil, fmt.Errorf("enqueue generation task: %w", err)
	}

	return &SubmitResult{TaskID: taskID, ContentID: content.ID}, nil
}

// Review marks a generated content row as reviewed with the given rating
// and invalidates the cached stats of its prompt version.
func (s *Service) Review(ctx context.Context, id uuid.UUID, rating int) (*models.GeneratedContent, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating", "must be between 1 and 5")
	}
	if err := s.repo.Review(ctx, id, rating, time.Now().UTC()); err != nil {
		return nil, err
	}
	content, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if content.PromptVersionID != nil && s.stats != nil {
		s.stats.Invalidate(ctx, *content.PromptVersionID)
	}
	return content, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.GeneratedContent, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.GeneratedContent, error) {
	return s.repo.List(ctx, f)
}
