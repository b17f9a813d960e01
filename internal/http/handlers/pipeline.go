package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/pkg/problem"
)

// LatestPipeline exposes the most recent pipeline built in the background.
type LatestPipeline interface {
	Latest() (core.Pipeline, error)
}

type PipelineHandler struct {
	Svc    core.RenewalService
	Latest LatestPipeline
	Log    *slog.Logger
}

func NewPipelineHandler(svc core.RenewalService, latest LatestPipeline, log *slog.Logger) *PipelineHandler {
	return &PipelineHandler{Svc: svc, Latest: latest, Log: log}
}

func (h *PipelineHandler) Mount(r chi.Router) {
	r.Route("/pipeline", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Build)
		r.Get("/latest", h.GetLatest)
		r.Get("/{record_id}", h.GetItem)
	})
	r.Get("/weights/default", h.DefaultWeights)
}

// Get builds the pipeline with default weights.
// 200: JSON; 400: bad window/mode; 500: internal error.
func (h *PipelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := pipelineQuery(r)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}

	p, err := h.Svc.Pipeline(r.Context(), q)
	if err != nil {
		writeError(r, h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, p)
}

// Build builds the pipeline with caller-supplied weights, window and mode.
// 200: JSON; 400: bad JSON/validation; 500: internal error.
func (h *PipelineHandler) Build(w http.ResponseWriter, r *http.Request) {
	var q core.PipelineQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	p, err := h.Svc.Pipeline(r.Context(), q)
	if err != nil {
		writeError(r, h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, p)
}

// GetLatest returns the last pipeline built by the background worker.
// 200: JSON; 503: no run has completed yet.
func (h *PipelineHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	if h.Latest == nil {
		writeError(r, h.Log, w, core.ErrNotReady, "Background pipeline refresh is disabled.")
		return
	}
	p, err := h.Latest.Latest()
	if err != nil {
		writeError(r, h.Log, w, err, "No pipeline has been built yet.")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, p)
}

// GetItem returns one record's pipeline entry.
// 200: JSON; 400: bad query; 404: unknown record or outside the window; 500: internal error.
func (h *PipelineHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "record_id")
	if id == "" {
		problem.Write(w, r, http.StatusBadRequest, "Missing Record ID", "Path parameter record_id is required.")
		return
	}
	q, err := pipelineQuery(r)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}

	item, err := h.Svc.Item(r.Context(), id, q)
	if err != nil {
		writeError(r, h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, item)
}

// DefaultWeights returns the built-in factor weights.
func (h *PipelineHandler) DefaultWeights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(h.Log, w, http.StatusOK, core.DefaultWeights())
}
