package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/audit"
	"github.com/mkravtsov/contentgen/internal/auth"
	"github.com/mkravtsov/contentgen/internal/diff"
	"github.com/mkravtsov/contentgen/internal/models"
	"github.com/mkravtsov/contentgen/internal/prompt"
)

type VersionHandler struct {
	svc   *prompt.Service
	stats *prompt.StatsAggregator
	audit *audit.Service
}

func NewVersionHandler(svc *prompt.Service, stats *prompt.StatsAggregator, auditSvc *audit.Service) *VersionHandler {
	return &VersionHandler{svc: svc, stats: stats, audit: auditSvc}
}

// authorOrUser falls back to the authenticated user's display name.
func authorOrUser(r *http.Request, author string) string {
	if author != "" {
		return author
	}
	if user := auth.UserFromContext(r.Context()); user != nil {
		if user.Name != "" {
			return user.Name
		}
		return user.Sub
	}
	return ""
}

type createVersionRequest struct {
	PromptID    uuid.UUID `json:"prompt_id"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
}

func (h *VersionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.Validation("body", "invalid request body"))
		return
	}
	if req.PromptID == uuid.Nil {
		respondError(w, r, apperr.Validation("prompt_id", "prompt_id is required"))
		return
	}

	v, err := h.svc.CreateVersion(r.Context(), req.PromptID, req.Description, req.Content, authorOrUser(r, req.Author))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "version.create", "prompt_version", &v.ID, map[string]interface{}{
		"prompt_id":      v.PromptID,
		"version_number": v.VersionNumber,
	})
	writeJSON(w, http.StatusCreated, v)
}

func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	promptID, err := uuid.Parse(r.URL.Query().Get("prompt_id"))
	if err != nil {
		respondError(w, r, apperr.Validation("prompt_id", "invalid or missing prompt_id"))
		return
	}

	versions, err := h.svc.ListVersions(r.Context(), promptID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"versions": versions, "count": len(versions)})
}

func (h *VersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid version ID"))
		return
	}

	v, err := h.svc.GetVersion(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	stats, err := h.stats.StatsFor(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"version": v, "stats": stats})
}

type editVersionRequest struct {
	Description string `json:"description"`
	Content     string `json:"content"`
	Author      string `json:"author"`
}

// Edit applies smart versioning: unchanged content updates the version in
// place, changed content branches a new version. The response reports which
// happened.
func (h *VersionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid version ID"))
		return
	}

	var req editVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.Validation("body", "invalid request body"))
		return
	}

	v, branched, err := h.svc.ApplyEdit(r.Context(), id, req.Description, req.Content, authorOrUser(r, req.Author))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "version.edit", "prompt_version", &v.ID, map[string]interface{}{
		"branched":       branched,
		"version_number": v.VersionNumber,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"version": v, "branched": branched})
}

func (h *VersionHandler) Clone(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid version ID"))
		return
	}

	v, err := h.svc.Clone(r.Context(), id, authorOrUser(r, ""))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "version.clone", "prompt_version", &v.ID, map[string]interface{}{
		"source_version": id,
		"version_number": v.VersionNumber,
	})
	writeJSON(w, http.StatusCreated, v)
}

func (h *VersionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid version ID"))
		return
	}

	if err := h.svc.DeleteVersion(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "version.delete", "prompt_version", &id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *VersionHandler) Compare(w http.ResponseWriter, r *http.Request) {
	id1, err := uuid.Parse(chi.URLParam(r, "id1"))
	if err != nil {
		respondError(w, r, apperr.Validation("id1", "invalid version ID"))
		return
	}
	id2, err := uuid.Parse(chi.URLParam(r, "id2"))
	if err != nil {
		respondError(w, r, apperr.Validation("id2", "invalid version ID"))
		return
	}

	v1, err := h.svc.GetVersion(r.Context(), id1)
	if err != nil {
		respondError(w, r, err)
		return
	}
	v2, err := h.svc.GetVersion(r.Context(), id2)
	if err != nil {
		respondError(w, r, err)
		return
	}

	maxLines := diff.DefaultMaxLines
	if raw := r.URL.Query().Get("max_lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, r, apperr.Validation("max_lines", "must be a positive integer"))
			return
		}
		maxLines = n
	}

	result := diff.CompareMaxLines(v1.Content, v2.Content, maxLines)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version_1": versionSummary(v1),
		"version_2": versionSummary(v2),
		"diff":      result,
	})
}

func versionSummary(v *models.PromptVersion) map[string]interface{} {
	return map[string]interface{}{
		"id":             v.ID,
		"prompt_id":      v.PromptID,
		"version_number": v.VersionNumber,
		"description":    v.Description,
		"author":         v.Author,
		"created_at":     v.CreatedAt,
	}
}
