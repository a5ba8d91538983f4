package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/audit"
	"github.com/mkravtsov/contentgen/internal/prompt"
)

type PromptHandler struct {
	svc   *prompt.Service
	audit *audit.Service
}

func NewPromptHandler(svc *prompt.Service, auditSvc *audit.Service) *PromptHandler {
	return &PromptHandler{svc: svc, audit: auditSvc}
}

type createPromptRequest struct {
	PromptType  string `json:"prompt_type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.Validation("body", "invalid request body"))
		return
	}

	p, err := h.svc.CreatePrompt(r.Context(), req.PromptType, req.Name, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "prompt.create", "prompt", &p.ID, map[string]interface{}{
		"prompt_type": p.PromptType,
		"name":        p.Name,
	})
	writeJSON(w, http.StatusCreated, p)
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	prompts, err := h.svc.ListPrompts(r.Context(), activeOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts, "count": len(prompts)})
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid prompt ID"))
		return
	}

	p, err := h.svc.GetPrompt(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	versions, err := h.svc.ListVersions(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prompt": p, "versions": versions})
}

type updatePromptRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid prompt ID"))
		return
	}

	var req updatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.Validation("body", "invalid request body"))
		return
	}

	p, err := h.svc.UpdatePrompt(r.Context(), id, req.Name, req.Description, req.IsActive)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "prompt.update", "prompt", &p.ID, map[string]interface{}{
		"name":      p.Name,
		"is_active": p.IsActive,
	})
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid prompt ID"))
		return
	}

	if err := h.svc.DeletePrompt(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "prompt.delete", "prompt", &id, nil)
	w.WriteHeader(http.StatusNoContent)
}
