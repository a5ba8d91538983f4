package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mkravtsov/contentgen/internal/generation"
	"github.com/mkravtsov/contentgen/internal/provider"
	"github.com/mkravtsov/contentgen/internal/queue"
)

// GenerationWorker runs queued generation tasks against the provider
// gateway and records the outcome through the linker.
type GenerationWorker struct {
	gateway provider.Gateway
	linker  *generation.Linker
}

func NewGenerationWorker(gateway provider.Gateway, linker *generation.Linker) *GenerationWorker {
	return &GenerationWorker{gateway: gateway, linker: linker}
}

func (w *GenerationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.GenerationRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return fmt.Errorf("parse task ID: %w", err)
	}

	slog.Info("running generation task",
		"task_id", taskID,
		"action", payload.Action,
		"subject_type", payload.SubjectType,
		"subject_id", payload.SubjectID,
	)

	taskContext := map[string]interface{}{
		"prompt_version_id": payload.PromptVersionID,
		"subject_type":      payload.SubjectType,
		"subject_id":        payload.SubjectID,
		"action":            payload.Action,
	}

	resp, genErr := w.gateway.Generate(ctx, provider.GenerateRequest{
		Prompt:           payload.PromptContent,
		AdditionalPrompt: payload.AdditionalPrompt,
		Context:          payload.Context,
	})
	if genErr != nil {
		failure, _ := json.Marshal(map[string]string{"error": genErr.Error()})
		if _, linkErr := w.linker.LinkResult(ctx, &generation.CompletedTask{
			ID:      taskID,
			Status:  generation.TaskStatusFailure,
			Context: taskContext,
			Result:  failure,
		}); linkErr != nil {
			slog.Error("failed to record generation failure", "task_id", taskID, "error", linkErr)
		}
		return fmt.Errorf("generate content: %w", genErr)
	}

	if _, err := w.linker.LinkResult(ctx, &generation.CompletedTask{
		ID:      taskID,
		Status:  generation.TaskStatusSuccess,
		Context: taskContext,
		Result:  resp.Data,
	}); err != nil {
		return fmt.Errorf("link generation result: %w", err)
	}

	slog.Info("generation task finished", "task_id", taskID, "model", resp.Model)
	return nil
}
