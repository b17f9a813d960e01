package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/internal/platform/ids"
	"github.com/MrKriegler/go-renewals/pkg/problem"
)

type RecordHandler struct {
	Repo core.RecordRepo
	Log  *slog.Logger
}

func NewRecordHandler(repo core.RecordRepo, log *slog.Logger) *RecordHandler {
	return &RecordHandler{Repo: repo, Log: log}
}

func (h *RecordHandler) Mount(r chi.Router) {
	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/ledger", h.ImportLedger)
		r.Get("/{record_id}", h.Get)
		r.Put("/{record_id}", h.Put)
	})
}

// List returns every stored record.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(r, h.Log, w, err, "Failed to list records")
		return
	}
	if recs == nil {
		recs = []core.Record{}
	}
	writeJSON(h.Log, w, http.StatusOK, map[string]any{"items": recs, "total": len(recs)})
}

// Create stores a CSV-sourced record under a generated ID.
// 201: JSON; 400: bad JSON or missing premium.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rec core.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	if rec.Source == "" {
		rec.Source = core.RecordSourceCSV
	}
	if !h.save(w, r, rec) {
		return
	}
	writeJSON(h.Log, w, http.StatusCreated, rec)
}

// ImportLedger converts on-chain policies (wei amounts, numeric status) and stores them.
// 200: JSON with imported IDs; 400: bad JSON or an unconvertible policy.
func (h *RecordHandler) ImportLedger(w http.ResponseWriter, r *http.Request) {
	var policies []core.LedgerPolicy
	if err := json.NewDecoder(r.Body).Decode(&policies); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON", "Body must be an array of ledger policies.")
		return
	}

	recs := make([]core.Record, 0, len(policies))
	for _, p := range policies {
		rec, err := p.ToRecord()
		if err != nil {
			writeError(r, h.Log, w, err, err.Error())
			return
		}
		if rec.ID == "" {
			writeError(r, h.Log, w, core.ErrValidation, "Every ledger policy needs an id.")
			return
		}
		recs = append(recs, rec)
	}

	imported := make([]string, 0, len(recs))
	for _, rec := range recs {
		// Unparseable premiums are kept so enrichment can fix them; the pipeline skips them.
		if err := h.Repo.Upsert(r.Context(), rec); err != nil {
			writeError(r, h.Log, w, err, "Failed to store record")
			return
		}
		imported = append(imported, rec.ID)
	}
	h.Log.InfoContext(r.Context(), "ledger policies imported", "count", len(imported))
	writeJSON(h.Log, w, http.StatusOK, map[string]any{"imported": imported})
}

// Get returns one record.
// 200: JSON; 404: not found.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "record_id")
	rec, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeError(r, h.Log, w, err, fmt.Sprintf("Record %s not found", id))
		return
	}
	writeJSON(h.Log, w, http.StatusOK, rec)
}

// Put creates or replaces a record, typically to attach enrichment.
// 200: JSON; 400: bad JSON, ID mismatch or missing premium.
func (h *RecordHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "record_id")
	var rec core.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if rec.ID == "" {
		rec.ID = id
	}
	if rec.ID != id {
		problem.Write(w, r, http.StatusBadRequest, "ID Mismatch", "Body id must match the path record_id.")
		return
	}
	if !h.save(w, r, rec) {
		return
	}
	writeJSON(h.Log, w, http.StatusOK, rec)
}

func (h *RecordHandler) save(w http.ResponseWriter, r *http.Request, rec core.Record) bool {
	if err := rec.Validate(); err != nil {
		writeError(r, h.Log, w, err, err.Error())
		return false
	}
	if err := h.Repo.Upsert(r.Context(), rec); err != nil {
		writeError(r, h.Log, w, err, "Failed to store record")
		return false
	}
	return true
}
