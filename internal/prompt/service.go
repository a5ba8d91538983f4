package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/models"
)

// MaxContentLength caps prompt content size in characters.
const MaxContentLength = 50000

// Service manages prompts and the versioning rules around their content.
type Service struct {
	repo  Repository
	usage UsageCounter
}

func NewService(repo Repository, usage UsageCounter) *Service {
	return &Service{repo: repo, usage: usage}
}

func (s *Service) CreatePrompt(ctx context.Context, promptType, name, description string) (*models.Prompt, error) {
	if strings.TrimSpace(promptType) == "" {
		return nil, apperr.Validation("prompt_type", "prompt type is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	p := &models.Prompt{
		PromptType:  strings.TrimSpace(promptType),
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := s.repo.CreatePrompt(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPrompt(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	return s.repo.GetPrompt(ctx, id)
}

func (s *Service) ListPrompts(ctx context.Context, activeOnly bool) ([]models.Prompt, error) {
	return s.repo.ListPrompts(ctx, activeOnly)
}

func (s *Service) UpdatePrompt(ctx context.Context, id uuid.UUID, name, description string, isActive bool) (*models.Prompt, error) {
	p, err := s.repo.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	p.Name = name
	p.Description = description
	p.IsActive = isActive
	if err := s.repo.UpdatePrompt(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePrompt removes a prompt only when no versions reference it.
func (s *Service) DeletePrompt(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountVersions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("prompt still has versions", count)
	}
	return s.repo.DeletePrompt(ctx, id)
}

// NextVersionNumber previews the number the next version in the scope would
// get. The authoritative assignment happens inside CreateVersion.
func (s *Service) NextVersionNumber(ctx context.Context, promptID uuid.UUID) (int, error) {
	max, err := s.repo.MaxVersionNumber(ctx, promptID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *Service) CreateVersion(ctx context.Context, promptID uuid.UUID, description, content, author string) (*models.PromptVersion, error) {
	if err := validateVersionFields(description, content); err != nil {
		return nil, err
	}
	v := &models.PromptVersion{
		PromptID:    promptID,
		Description: description,
		Content:     content,
		Author:      author,
	}
	if err := s.repo.CreateVersion(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ApplyEdit is the smart-versioning rule. Editing content always branches
// to a new version; editing only metadata updates the existing version in
// place. The returned flag reports whether a branch occurred.
func (s *Service) ApplyEdit(ctx context.Context, versionID uuid.UUID, description, content, author string) (*models.PromptVersion, bool, error) {
	existing, err := s.repo.GetVersion(ctx, versionID)
	if err != nil {
		return nil, false, err
	}
	if err := validateVersionFields(description, content); err != nil {
		return nil, false, err
	}

	if content == existing.Content {
		if err := s.repo.UpdateVersionMeta(ctx, existing.ID, description, author); err != nil {
			return nil, false, err
		}
		existing.Description = description
		existing.Author = author
		return existing, false, nil
	}

	branched, err := s.CreateVersion(ctx, existing.PromptID, description, content, author)
	if err != nil {
		return nil, false, err
	}
	return branched, true, nil
}

// Clone copies a version's content into a new sequential version with a
// derived description.
func (s *Service) Clone(ctx context.Context, versionID uuid.UUID, author string) (*models.PromptVersion, error) {
	source, err := s.repo.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	description := fmt.Sprintf("Clone of version %d: %s", source.VersionNumber, source.Description)
	return s.CreateVersion(ctx, source.PromptID, description, source.Content, author)
}

func (s *Service) GetVersion(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error) {
	return s.repo.GetVersion(ctx, id)
}

func (s *Service) ListVersions(ctx context.Context, promptID uuid.UUID) ([]models.PromptVersion, error) {
	return s.repo.ListVersions(ctx, promptID)
}

// DeleteVersion refuses to remove a version referenced by generated
// content; the conflict carries the reference count.
func (s *Service) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	if _, err := s.repo.GetVersion(ctx, versionID); err != nil {
		return err
	}
	count, err := s.usage.CountByVersion(ctx, versionID)
	if err != nil {
		return fmt.Errorf("count generated content: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("prompt version is referenced by generated content", count)
	}
	return s.repo.DeleteVersion(ctx, versionID)
}

func validateVersionFields(description, content string) error {
	if strings.TrimSpace(description) == "" {
		return apperr.Validation("description", "description is required")
	}
	if len([]rune(content)) > MaxContentLength {
		return apperr.Validation("content",
			fmt.Sprintf("content exceeds %d characters (got %d)", MaxContentLength, len([]rune(content))))
	}
	return nil
}
