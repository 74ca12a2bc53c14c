package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dekadapp/dekad/internal/types"
	"github.com/dekadapp/dekad/internal/validation"
)

// AddGoal handles POST /api/v1/years/{year}/periods/{number}/goals
func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := MustPeriodFromContext(ctx)

	var req types.NewGoal
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Category == "" {
		req.Category = types.CategoryOther
	}
	if req.Priority == "" {
		req.Priority = types.PriorityMedium
	}

	if errs := validation.ValidateGoal(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Goal contains invalid fields", errs)
		return
	}

	goal, err := h.store.AddGoal(ctx, p.ID, req)
	if err != nil {
		slog.Error("add goal failed", "component", "api", "period_id", p.ID, "error", err)
		MapStoreError(w, r, err)
		return
	}

	slog.Info("goal added",
		"component", "api",
		"action", "add_goal",
		"request_id", GetRequestID(ctx),
		"year", p.Year,
		"period", p.Number,
		"goal_id", goal.ID,
	)
	writeJSON(w, http.StatusCreated, goal)
}

// UpdateGoal handles PATCH /api/v1/goals/{id}
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if verr := validation.ValidateULID("id", id); verr != nil {
		WriteProblemWithErrors(w, r, "Invalid path parameter", []validation.ValidationError{*verr})
		return
	}

	var req types.GoalUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Completed == nil {
		WriteProblemWithErrors(w, r, "Goal update contains invalid fields", []validation.ValidationError{
			{Field: "completed", Message: "is required"},
		})
		return
	}

	goal, err := h.store.SetGoalCompleted(r.Context(), id, *req.Completed)
	if err != nil {
		slog.Warn("update goal failed", "component", "api", "goal_id", id, "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/{id}
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if verr := validation.ValidateULID("id", id); verr != nil {
		WriteProblemWithErrors(w, r, "Invalid path parameter", []validation.ValidationError{*verr})
		return
	}

	if err := h.store.DeleteGoal(r.Context(), id); err != nil {
		slog.Warn("delete goal failed", "component", "api", "goal_id", id, "error", err)
		MapStoreError(w, r, err)
		return
	}

	slog.Info("goal deleted",
		"component", "api",
		"action", "delete_goal",
		"request_id", GetRequestID(r.Context()),
		"goal_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}

// SaveResult handles PUT /api/v1/years/{year}/periods/{number}/result
func (h *Handler) SaveResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := MustPeriodFromContext(ctx)

	var req types.NewResult
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateResult(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Result contains invalid fields", errs)
		return
	}

	result, err := h.store.SaveResult(ctx, p.ID, req)
	if err != nil {
		slog.Error("save result failed", "component", "api", "period_id", p.ID, "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SaveDailyRecord handles PUT /api/v1/years/{year}/periods/{number}/days/{day}
func (h *Handler) SaveDailyRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := MustPeriodFromContext(ctx)

	day, ok := intParam(w, r, "day", validation.ValidateDayNumber)
	if !ok {
		return
	}

	var req types.NewDailyRecord
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateDailyRecord(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Daily record contains invalid fields", errs)
		return
	}

	record, err := h.store.SaveDailyRecord(ctx, p.ID, day, req)
	if err != nil {
		slog.Error("save daily record failed", "component", "api", "period_id", p.ID, "day", day, "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// DeleteDailyRecord handles DELETE /api/v1/years/{year}/periods/{number}/days/{day}
func (h *Handler) DeleteDailyRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := MustPeriodFromContext(ctx)

	day, ok := intParam(w, r, "day", validation.ValidateDayNumber)
	if !ok {
		return
	}

	if err := h.store.DeleteDailyRecord(ctx, p.ID, day); err != nil {
		slog.Warn("delete daily record failed", "component", "api", "period_id", p.ID, "day", day, "error", err)
		MapStoreError(w, r, err)
		return
	}

	slog.Info("daily record deleted",
		"component", "api",
		"action", "delete_daily_record",
		"request_id", GetRequestID(ctx),
		"period_id", p.ID,
		"day", day,
	)
	w.WriteHeader(http.StatusNoContent)
}
