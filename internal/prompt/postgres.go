package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/models"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreatePrompt(ctx context.Context, p *models.Prompt) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO prompts (prompt_type, name, description, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		p.PromptType, p.Name, p.Description, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetPrompt(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	var p models.Prompt
	err := r.db.QueryRow(ctx,
		`SELECT id, prompt_type, name, description, is_active, created_at, updated_at
		 FROM prompts WHERE id = $1`, id,
	).Scan(&p.ID, &p.PromptType, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("prompt", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) ListPrompts(ctx context.Context, activeOnly bool) ([]models.Prompt, error) {
	q := `SELECT id, prompt_type, name, description, is_active, created_at, updated_at
	      FROM prompts`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.PromptType, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (r *PostgresRepository) UpdatePrompt(ctx context.Context, p *models.Prompt) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prompts SET name = $2, description = $3, is_active = $4, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("prompt", p.ID.String())
	}
	return nil
}

func (r *PostgresRepository) DeletePrompt(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("prompt", id.String())
	}
	return nil
}

func (r *PostgresRepository) CountVersions(ctx context.Context, promptID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM prompt_versions WHERE prompt_id = $1`, promptID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count versions: %w", err)
	}
	return n, nil
}

// CreateVersion locks the owning prompt row for the duration of the
// number-then-insert so two concurrent creates in the same scope cannot be
// assigned the same version number.
func (r *PostgresRepository) CreateVersion(ctx context.Context, v *models.PromptVersion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var promptID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM prompts WHERE id = $1 FOR UPDATE`, v.PromptID).Scan(&promptID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("prompt", v.PromptID.String())
	}
	if err != nil {
		return fmt.Errorf("lock prompt: %w", err)
	}

	var next int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM prompt_versions WHERE prompt_id = $1`,
		v.PromptID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("next version number: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO prompt_versions (prompt_id, version_number, description, content, author)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		v.PromptID, next, v.Description, v.Content, v.Author,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	v.VersionNumber = next

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetVersion(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error) {
	var v models.PromptVersion
	err := r.db.QueryRow(ctx,
		`SELECT id, prompt_id, version_number, description, content, author, created_at
		 FROM prompt_versions WHERE id = $1`, id,
	).Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Description, &v.Content, &v.Author, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("prompt version", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	return &v, nil
}

func (r *PostgresRepository) ListVersions(ctx context.Context, promptID uuid.UUID) ([]models.PromptVersion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, prompt_id, version_number, description, content, author, created_at
		 FROM prompt_versions WHERE prompt_id = $1 ORDER BY version_number DESC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.PromptVersion
	for rows.Next() {
		var v models.PromptVersion
		if err := rows.Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Description, &v.Content, &v.Author, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *PostgresRepository) MaxVersionNumber(ctx context.Context, promptID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM prompt_versions WHERE prompt_id = $1`,
		promptID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max version number: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) UpdateVersionMeta(ctx context.Context, id uuid.UUID, description, author string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prompt_versions SET description = $2, author = $3 WHERE id = $1`,
		id, description, author,
	)
	if err != nil {
		return fmt.Errorf("update version meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("prompt version", id.String())
	}
	return nil
}

func (r *PostgresRepository) DeleteVersion(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM prompt_versions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("prompt version", id.String())
	}
	return nil
}
