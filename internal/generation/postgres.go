package generation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/models"
	"github.com/mkravtsov/contentgen/internal/prompt"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const contentColumns = `id, task_id, prompt_version_id, subject_type, subject_id, generated_data, status, created_at, reviewed_at, rating`

func (r *PostgresRepository) Create(ctx context.Context, gc *models.GeneratedContent) error {
	if len(gc.GeneratedData) == 0 {
		gc.GeneratedData = []byte(`{}`)
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO generated_content (task_id, prompt_version_id, subject_type, subject_id, generated_data, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		gc.TaskID, gc.PromptVersionID, gc.SubjectType, gc.SubjectID, gc.GeneratedData, gc.Status,
	).Scan(&gc.ID, &gc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert generated content: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertByTask(ctx context.Context, gc *models.GeneratedContent) error {
	if len(gc.GeneratedData) == 0 {
		gc.GeneratedData = []byte(`{}`)
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO generated_content (task_id, prompt_version_id, subject_type, subject_id, generated_data, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (task_id) DO UPDATE
		 SET prompt_version_id = EXCLUDED.prompt_version_id,
		     generated_data = EXCLUDED.generated_data,
		     status = EXCLUDED.status
		 RETURNING id, created_at, reviewed_at, rating`,
		gc.TaskID, gc.PromptVersionID, gc.SubjectType, gc.SubjectID, gc.GeneratedData, gc.Status,
	).Scan(&gc.ID, &gc.CreatedAt, &gc.ReviewedAt, &gc.Rating)
	if err != nil {
		return fmt.Errorf("upsert generated content: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.GeneratedContent, error) {
	var gc models.GeneratedContent
	err := r.db.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM generated_content WHERE id = $1`, id,
	).Scan(&gc.ID, &gc.TaskID, &gc.PromptVersionID, &gc.SubjectType, &gc.SubjectID,
		&gc.GeneratedData, &gc.Status, &gc.CreatedAt, &gc.ReviewedAt, &gc.Rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("generated content", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get generated content: %w", err)
	}
	return &gc, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]models.GeneratedContent, error) {
	q := `SELECT ` + contentColumns + ` FROM generated_content WHERE 1=1`
	args := []interface{}{}

	if f.PromptVersionID != nil {
		args = append(args, *f.PromptVersionID)
		q += ` AND prompt_version_id = $` + strconv.Itoa(len(args))
	}
	if f.SubjectType != "" {
		args = append(args, f.SubjectType)
		q += ` AND subject_type = $` + strconv.Itoa(len(args))
	}
	if f.SubjectID > 0 {
		args = append(args, f.SubjectID)
		q += ` AND subject_id = $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + strconv.Itoa(len(args))
	}

	q += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list generated content: %w", err)
	}
	defer rows.Close()

	var out []models.GeneratedContent
	for rows.Next() {
		var gc models.GeneratedContent
		if err := rows.Scan(&gc.ID, &gc.TaskID, &gc.PromptVersionID, &gc.SubjectType, &gc.SubjectID,
			&gc.GeneratedData, &gc.Status, &gc.CreatedAt, &gc.ReviewedAt, &gc.Rating); err != nil {
			return nil, fmt.Errorf("scan generated content: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountByVersion(ctx context.Context, versionID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM generated_content WHERE prompt_version_id = $1`, versionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by version: %w", err)
	}
	return n, nil
}

// UsageByVersion aggregates every stats counter in one scan.
func (r *PostgresRepository) UsageByVersion(ctx context.Context, versionID uuid.UUID) (prompt.UsageRow, error) {
	var row prompt.UsageRow
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE reviewed_at IS NOT NULL),
		        COUNT(rating),
		        COALESCE(SUM(rating), 0),
		        COUNT(*) FILTER (WHERE status = 'SUCCESS'),
		        COUNT(*) FILTER (WHERE status = 'FAILURE'),
		        COUNT(*) FILTER (WHERE status IN ('PENDING', 'PROCESSING'))
		 FROM generated_content WHERE prompt_version_id = $1`,
		versionID,
	).Scan(&row.Generated, &row.Reviewed, &row.RatedCount, &row.RatingSum,
		&row.Success, &row.Failure, &row.Pending)
	if err != nil {
		return prompt.UsageRow{}, fmt.Errorf("usage by version: %w", err)
	}
	return row, nil
}

func (r *PostgresRepository) Review(ctx context.Context, id uuid.UUID, rating int, reviewedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE generated_content
		 SET reviewed_at = $2, rating = $3, status = $4
		 WHERE id = $1`,
		id, reviewedAt, rating, models.StatusReviewed,
	)
	if err != nil {
		return fmt.Errorf("review generated content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("generated content", id.String())
	}
	return nil
}
