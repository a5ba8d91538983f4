package handlers

import (
	"net/http"
	"strconv"

	"github.com/mkravtsov/contentgen/internal/audit"
)

type AdminHandler struct {
	audit *audit.Service
}

func NewAdminHandler(auditSvc *audit.Service) *AdminHandler {
	return &AdminHandler{audit: auditSvc}
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	entries, err := h.audit.List(r.Context(), audit.Query{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}
