package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))
			r.Use(h.TodayMiddleware)

			r.Route("/years/{year}", func(r chi.Router) {
				r.Post("/periods", h.GeneratePeriods)
				r.Get("/periods", h.ListPeriods)
				r.Delete("/periods", h.DeletePeriods)
				r.Get("/periods/current", h.CurrentPeriod)

				r.Route("/periods/{number}", func(r chi.Router) {
					r.Use(h.PeriodMiddleware)
					r.Get("/", h.GetPeriod)
					r.Post("/goals", h.AddGoal)
					r.Put("/result", h.SaveResult)
					r.Put("/days/{day}", h.SaveDailyRecord)
					r.Delete("/days/{day}", h.DeleteDailyRecord)
				})

				r.Get("/compare/{day}", h.CompareDay)
			})

			r.Patch("/goals/{id}", h.UpdateGoal)
			r.Delete("/goals/{id}", h.DeleteGoal)

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
		})
	})

	return r
}
