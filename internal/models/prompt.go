package models

import (
	"time"

	"github.com/google/uuid"
)

// Prompt groups versions under a named generation purpose (SEO metadata,
// descriptions, name rewriting, etc.)
type Prompt struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PromptType  string    `json:"prompt_type" db:"prompt_type"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PromptVersion is a snapshot of prompt text. Content, version number and
// created_at are immutable once written; description and author may be
// edited in place only when the content is unchanged.
type PromptVersion struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PromptID      uuid.UUID `json:"prompt_id" db:"prompt_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	Description   string    `json:"description" db:"description"`
	Content       string    `json:"content" db:"content"`
	Author        string    `json:"author" db:"author"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
