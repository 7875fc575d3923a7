/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
			r.Post("/{id}/pause", h.PauseClient)
			r.Post("/{id}/resume", h.ResumeClient)
			r.Post("/{id}/complete", h.CompleteClient)
			r.Get("/{id}/week", h.ClientWeek)

			r.Get("/{id}/baselines", h.ListBaselines)
			r.Post("/{id}/baselines", h.CreateBaseline)
			r.Put("/{id}/overrides/{week}", h.SaveOverride)
			r.Delete("/{id}/overrides/{week}", h.DeleteOverride)

			r.Get("/{id}/completions", h.ListCompletions)
			r.Post("/{id}/completions", h.LogCompletion)
		})

		r.Route("/plan", func(r chi.Router) {
			r.Post("/", h.Plan)
			r.Post("/csv", h.PlanCSV)
		})

		r.Route("/staffing", func(r chi.Router) {
			r.Get("/series", h.StaffingSeries)
			r.Get("/snapshots", h.ListStaffingSnapshots)
			r.Post("/snapshots", h.SaveStaffingSnapshot)
			r.Post("/plan", h.StaffingPlan)
		})

		// Demo scenarios
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})

		// Dev only
		r.Post("/reset", h.Reset)
	})

	return r
}
