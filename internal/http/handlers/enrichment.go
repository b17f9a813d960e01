package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-renewals/internal/core"
)

type EnrichmentHandler struct {
	Svc core.RenewalService
	Log *slog.Logger
}

func NewEnrichmentHandler(svc core.RenewalService, log *slog.Logger) *EnrichmentHandler {
	return &EnrichmentHandler{Svc: svc, Log: log}
}

func (h *EnrichmentHandler) Mount(r chi.Router) {
	r.Get("/enrichment/template", h.Template)
}

// Template downloads the enrichment CSV for every stored record.
// 200: text/csv; 500: internal error.
func (h *EnrichmentHandler) Template(w http.ResponseWriter, r *http.Request) {
	body, err := h.Svc.EnrichmentTemplate(r.Context())
	if err != nil {
		writeError(r, h.Log, w, err, "Failed to build enrichment template")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="enrichment_template.csv"`)
	if _, err := w.Write([]byte(body)); err != nil {
		h.Log.Error("failed to write enrichment template", "err", err)
	}
}
