package api

import (
	"log/slog"
	"net/http"

	"github.com/dekadapp/dekad/internal/compare"
	"github.com/dekadapp/dekad/internal/types"
	"github.com/dekadapp/dekad/internal/validation"
)

// CompareDay handles GET /api/v1/years/{year}/compare/{day}
//
// Only recorded data is compared. Periods that should have reached the day
// but have nothing recorded for it are listed in missing_periods.
func (h *Handler) CompareDay(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", validation.ValidateYear)
	if !ok {
		return
	}
	day, ok := intParam(w, r, "day", validation.ValidateDayNumber)
	if !ok {
		return
	}

	obs, err := h.store.DayObservations(r.Context(), year, day)
	if err != nil {
		slog.Error("day observations failed", "component", "api", "year", year, "day", day, "error", err)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, compare.DayView(year, day, obs, h.today(r), h.tuning))
}

// GetSettings handles GET /api/v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		slog.Error("get settings failed", "component", "api", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req types.Settings
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateSettings(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Settings contain invalid fields", errs)
		return
	}

	if err := h.store.UpdateSettings(r.Context(), req); err != nil {
		slog.Error("update settings failed", "component", "api", "error", err)
		MapStoreError(w, r, err)
		return
	}

	slog.Info("settings updated",
		"component", "api",
		"action", "update_settings",
		"request_id", GetRequestID(r.Context()),
		"backup_enabled", req.BackupEnabled,
	)
	writeJSON(w, http.StatusOK, req)
}
