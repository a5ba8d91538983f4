package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type GenerationStatus string

const (
	StatusPending    GenerationStatus = "PENDING"
	StatusProcessing GenerationStatus = "PROCESSING"
	StatusSuccess    GenerationStatus = "SUCCESS"
	StatusFailure    GenerationStatus = "FAILURE"
	// StatusReviewed is terminal and only ever set by a human review
	// action, never by the generation pipeline.
	StatusReviewed GenerationStatus = "REVIEWED"
)

// GeneratedContent records the outcome of one generation attempt. Rows are
// created and updated by the result linker; review fields are written by
// the review endpoint only.
type GeneratedContent struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	TaskID          uuid.UUID        `json:"task_id" db:"task_id"`
	PromptVersionID *uuid.UUID       `json:"prompt_version_id,omitempty" db:"prompt_version_id"`
	SubjectType     string           `json:"subject_type" db:"subject_type"`
	SubjectID       int64            `json:"subject_id" db:"subject_id"`
	GeneratedData   json.RawMessage  `json:"generated_data" db:"generated_data"`
	Status          GenerationStatus `json:"status" db:"status"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
	Rating          *int             `json:"rating,omitempty" db:"rating"`
}
