package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkravtsov/contentgen/internal/apperr"
	"github.com/mkravtsov/contentgen/internal/audit"
	"github.com/mkravtsov/contentgen/internal/generation"
	"github.com/mkravtsov/contentgen/internal/models"
)

type GenerationHandler struct {
	svc   *generation.Service
	audit *audit.Service
}

func NewGenerationHandler(svc *generation.Service, auditSvc *audit.Service) *GenerationHandler {
	return &GenerationHandler{svc: svc, audit: auditSvc}
}

func (h *GenerationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req generation.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.Validation("body", "invalid request body"))
		return
	}

	res, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "generation.submit", "generated_content", &res.ContentID, map[string]interface{}{
		"task_id":           res.TaskID,
		"action":            req.Action,
		"prompt_version_id": req.PromptVersionID,
		"subject_type":      req.SubjectType,
		"subject_id":        req.SubjectID,
	})
	writeJSON(w, http.StatusAccepted, res)
}

func (h *GenerationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f generation.Filter
	if raw := q.Get("prompt_version_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, r, apperr.Validation("prompt_version_id", "invalid version ID"))
			return
		}
		f.PromptVersionID = &id
	}
	f.SubjectType = q.Get("subject_type")
	if raw := q.Get("subject_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, r, apperr.Validation("subject_id", "must be an integer"))
			return
		}
		f.SubjectID = id
	}
	f.Status = models.GenerationStatus(q.Get("status"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))
	if f.Limit <= 0 {
		f.Limit = 20
	}

	items, err := h.svc.List(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

func (h *GenerationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid content ID"))
		return
	}

	content, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, content)
}

type reviewRequest struct {
	Rating int `json:"rating"`
}

func (h *GenerationHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.Validation("id", "invalid content ID"))
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.Validation("body", "invalid request body"))
		return
	}

	content, err := h.svc.Review(r.Context(), id, req.Rating)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Record(r.Context(), "generation.review", "generated_content", &id, map[string]interface{}{
		"rating": req.Rating,
	})
	writeJSON(w, http.StatusOK, content)
}
