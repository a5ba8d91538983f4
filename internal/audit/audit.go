// Package audit records who changed what in the prompt library. Entries are
// best effort: a failed insert is logged and never blocks the request.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravtsov/contentgen/internal/auth"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type Entry struct {
	ID         uuid.UUID              `json:"id"`
	Actor      string                 `json:"actor"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uuid.UUID             `json:"entity_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Record writes one audit entry. The actor is taken from the request
// context when present.
func (s *Service) Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, details map[string]interface{}) {
	actor := "system"
	if user := auth.UserFromContext(ctx); user != nil {
		actor = user.Sub
		if user.Name != "" {
			actor = user.Name
		}
	}

	payload, _ := json.Marshal(details)

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_log (actor, action, entity_type, entity_id, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		actor, action, entityType, entityID, payload,
	)
	if err != nil {
		slog.Error("failed to write audit entry",
			"action", action,
			"entity_type", entityType,
			"error", err,
		)
	}
}

type Query struct {
	Action     string
	EntityType string
	Limit      int
	Offset     int
}

func (s *Service) List(ctx context.Context, q Query) ([]Entry, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	query := `SELECT id, actor, action, entity_type, entity_id, details, created_at
			  FROM audit_log WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if q.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, q.Action)
		argIdx++
	}
	if q.EntityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", argIdx)
		args = append(args, q.EntityType)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
