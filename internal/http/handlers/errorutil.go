package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/pkg/problem"
)

func writeError(r *http.Request, log *slog.Logger, w http.ResponseWriter, err error, detail string) {
	ctx := r.Context()
	switch {
	case errors.Is(err, core.ErrNotFound):
		log.WarnContext(ctx, "resource not found", "err", err)
		problem.Write(w, r, http.StatusNotFound, "Not Found", detail)

	case errors.Is(err, core.ErrValidation):
		log.WarnContext(ctx, "validation failed", "err", err)
		problem.Write(w, r, http.StatusBadRequest, "Validation Error", detail)

	case errors.Is(err, core.ErrConflict):
		log.WarnContext(ctx, "resource conflict", "err", err)
		problem.Write(w, r, http.StatusConflict, "Conflict", detail)

	case errors.Is(err, core.ErrNotReady):
		log.InfoContext(ctx, "resource not ready", "err", err)
		w.Header().Set("Retry-After", "5")
		problem.Write(w, r, http.StatusServiceUnavailable, "Not Ready", detail)

	case errors.Is(err, core.ErrUnauthorized):
		log.WarnContext(ctx, "unauthorized request", "err", err)
		problem.Write(w, r, http.StatusUnauthorized, "Unauthorized", detail)

	case errors.Is(err, core.ErrForbidden):
		log.WarnContext(ctx, "forbidden operation", "err", err)
		problem.Write(w, r, http.StatusForbidden, "Forbidden", detail)

	case errors.Is(err, context.DeadlineExceeded):
		log.ErrorContext(ctx, "operation timeout", "err", err)
		problem.Write(w, r, http.StatusGatewayTimeout, "Timeout", "Operation took too long.")

	default:
		log.ErrorContext(ctx, "internal server error", "err", err)
		problem.Write(w, r, http.StatusInternalServerError, "Internal Server Error", detail)
	}
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

// pipelineQuery reads ?window= and ?mode= from the URL.
func pipelineQuery(r *http.Request) (core.PipelineQuery, error) {
	var q core.PipelineQuery
	if s := r.URL.Query().Get("window"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("query parameter window must be an integer number of days")
		}
		q.TimeWindowDays = days
	}
	q.Mode = core.PipelineMode(r.URL.Query().Get("mode"))
	return q, nil
}
