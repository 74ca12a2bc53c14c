package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dekadapp/dekad/internal/compare"
	"github.com/dekadapp/dekad/internal/period"
	"github.com/dekadapp/dekad/internal/store"
	"github.com/dekadapp/dekad/internal/types"
	"github.com/dekadapp/dekad/internal/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Handler implements the API handlers
type Handler struct {
	store   store.Store
	tuning  compare.Tuning
	apiKey  string
	version string
	now     func() time.Time
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, tuning compare.Tuning, apiKey, version string) *Handler {
	return &Handler{
		store:   s,
		tuning:  tuning,
		apiKey:  apiKey,
		version: version,
		now:     time.Now,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		slog.Error("health stats failed", "component", "api", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	resp := types.HealthResponse{
		Status:      "healthy",
		Version:     h.version,
		YearsSeeded: stats.YearsSeeded,
		RecordCount: stats.RecordCount,
		LastBackup:  stats.LastBackup,
	}

	writeJSON(w, http.StatusOK, resp)
}

// GeneratePeriods handles POST /api/v1/years/{year}/periods
func (h *Handler) GeneratePeriods(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", validation.ValidateYear)
	if !ok {
		return
	}
	ctx := r.Context()
	today := h.today(r)

	if err := h.store.CreatePeriods(ctx, year, period.Generate(year, today)); err != nil {
		if errors.Is(err, store.ErrPeriodsExist) {
			WriteProblemConflict(w, r, fmt.Sprintf("Periods for %d already exist", year))
			return
		}
		slog.Error("generate periods failed", "component", "api", "year", year, "error", err)
		MapStoreError(w, r, err)
		return
	}

	// Re-read so the response carries the stored IDs.
	stored, err := h.store.ListPeriods(ctx, year)
	if err != nil {
		slog.Error("list periods failed", "component", "api", "year", year, "error", err)
		MapStoreError(w, r, err)
		return
	}

	slog.Info("periods generated",
		"component", "api",
		"action", "generate_periods",
		"request_id", GetRequestID(ctx),
		"year", year,
	)

	writeJSON(w, http.StatusCreated, periodList(year, today, stored))
}

// DeletePeriods handles DELETE /api/v1/years/{year}/periods
//
// Everything recorded against the year is removed with it, so a year can be
// regenerated after the conflict returned by GeneratePeriods.
func (h *Handler) DeletePeriods(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", validation.ValidateYear)
	if !ok {
		return
	}

	n, err := h.store.DeleteYear(r.Context(), year)
	if err != nil {
		slog.Error("delete year failed", "component", "api", "year", year, "error", err)
		MapStoreError(w, r, err)
		return
	}
	if n == 0 {
		WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("No periods for %d", year))
		return
	}

	slog.Info("year deleted",
		"component", "api",
		"action", "delete_year",
		"request_id", GetRequestID(r.Context()),
		"year", year,
		"periods", n,
	)
	w.WriteHeader(http.StatusNoContent)
}

// ListPeriods handles GET /api/v1/years/{year}/periods
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", validation.ValidateYear)
	if !ok {
		return
	}

	stored, err := h.store.ListPeriods(r.Context(), year)
	if err != nil {
		slog.Error("list periods failed", "component", "api", "year", year, "error", err)
		MapStoreError(w, r, err)
		return
	}
	if len(stored) == 0 {
		WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("Periods for %d have not been generated", year))
		return
	}

	writeJSON(w, http.StatusOK, periodList(year, h.today(r), stored))
}

// CurrentPeriod handles GET /api/v1/years/{year}/periods/current
func (h *Handler) CurrentPeriod(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", validation.ValidateYear)
	if !ok {
		return
	}
	today := h.today(r)

	number, ok := period.Locate(today)
	if !ok || today.Year() != year {
		WriteProblem(w, r, http.StatusNotFound,
			fmt.Sprintf("%s is not inside a period of %d", today.Format(time.DateOnly), year))
		return
	}

	p, err := h.store.GetPeriod(r.Context(), year, number)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("Periods for %d have not been generated", year))
			return
		}
		slog.Error("current period failed", "component", "api", "year", year, "error", err)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, periodView(*p, today))
}

// GetPeriod handles GET /api/v1/years/{year}/periods/{number}
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := MustPeriodFromContext(ctx)

	goals, err := h.store.ListGoals(ctx, p.ID)
	if err != nil {
		slog.Error("list goals failed", "component", "api", "period_id", p.ID, "error", err)
		MapStoreError(w, r, err)
		return
	}

	result, err := h.store.GetResult(ctx, p.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("get result failed", "component", "api", "period_id", p.ID, "error", err)
		MapStoreError(w, r, err)
		return
	}

	records, err := h.store.ListDailyRecords(ctx, p.ID)
	if err != nil {
		slog.Error("list daily records failed", "component", "api", "period_id", p.ID, "error", err)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.PeriodDetailResponse{
		Period:       periodView(*p, h.today(r)),
		Goals:        goals,
		Result:       result,
		DailyRecords: records,
	})
}

// today returns the reference day attached by TodayMiddleware, falling back
// to the handler clock.
func (h *Handler) today(r *http.Request) time.Time {
	if t, ok := TodayFromContext(r.Context()); ok {
		return t
	}
	return h.now()
}

func periodView(p types.Period, today time.Time) types.PeriodView {
	return period.View(p, today)
}

func periodList(year int, today time.Time, periods []types.Period) types.PeriodListResponse {
	views := make([]types.PeriodView, len(periods))
	for i, p := range periods {
		views[i] = periodView(p, today)
	}
	return types.PeriodListResponse{
		Year:    year,
		Today:   period.Date(today).Format(time.DateOnly),
		Periods: views,
	}
}

// decodeJSON decodes a bounded request body into dst.
// It writes a 400 problem and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
