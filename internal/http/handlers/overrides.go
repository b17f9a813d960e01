package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/pkg/problem"
)

type OverrideHandler struct {
	Svc core.RenewalService
	Log *slog.Logger
}

func NewOverrideHandler(svc core.RenewalService, log *slog.Logger) *OverrideHandler {
	return &OverrideHandler{Svc: svc, Log: log}
}

func (h *OverrideHandler) Mount(r chi.Router) {
	r.Route("/overrides", func(r chi.Router) {
		r.Get("/", h.List)
		r.Put("/{record_id}", h.Set)
		r.Delete("/{record_id}", h.Delete)
	})
}

// List returns every stored override ordered by record ID.
func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListOverrides(r.Context())
	if err != nil {
		writeError(r, h.Log, w, err, "Failed to list overrides")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, map[string]any{"items": items})
}

// Set stores a manual score for a record, replacing any earlier one.
// 200: JSON; 400: bad JSON, score out of range or missing reason; 404: unknown record.
func (h *OverrideHandler) Set(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "record_id")
	var in core.OverrideInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if in.CreatedBy == "" {
		in.CreatedBy = r.Header.Get("X-User")
	}

	o, err := h.Svc.SetOverride(r.Context(), id, in)
	if err != nil {
		writeError(r, h.Log, w, err, err.Error())
		return
	}
	h.Log.InfoContext(r.Context(), "override set", "record_id", id, "score", o.Score, "created_by", o.CreatedBy)
	writeJSON(h.Log, w, http.StatusOK, o)
}

// Delete removes a record's override.
// 204: removed; 404: no override for the record.
func (h *OverrideHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "record_id")
	if err := h.Svc.RemoveOverride(r.Context(), id); err != nil {
		writeError(r, h.Log, w, err, err.Error())
		return
	}
	h.Log.InfoContext(r.Context(), "override removed", "record_id", id)
	w.WriteHeader(http.StatusNoContent)
}
