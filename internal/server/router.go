// Package server assembles the HTTP router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/rv-checklist/backend/internal/auth"
	"github.com/ayush/rv-checklist/backend/internal/checklist"
	"github.com/ayush/rv-checklist/backend/internal/httpx"
	"github.com/ayush/rv-checklist/backend/internal/middleware"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// Deps are the collaborators the router wires into routes.
type Deps struct {
	Auth        *auth.Service
	Checklists  *checklist.Handler
	CORSOrigins []string
	Log         *slog.Logger
}

// NewRouter builds the full route tree. API routes live under /api.
func NewRouter(d Deps) http.Handler {
	authHandler := auth.NewHandler(d.Auth, d.Log)
	requireAuth := middleware.RequireAuth(d.Auth, d.Log)
	adminOnly := middleware.RequireRole(models.RoleAdmin, d.Log)
	ch := d.Checklists

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		// Template routes: read for users, write for admins
		r.Route("/checklist-templates", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", ch.ListTemplates)
			r.Get("/default", ch.ListDefaultTemplates)
			r.Get("/{id}", ch.GetTemplate)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", ch.CreateTemplate)
				r.Put("/{id}", ch.UpdateTemplate)
				r.Delete("/{id}", ch.DeleteTemplate)
			})
		})

		// Instance routes (owner only, enforced by the manager)
		r.Route("/checklist-instances", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", ch.ListInstances)
			r.Post("/", ch.CreateInstance)
			r.Get("/{id}", ch.GetInstance)
			r.Put("/{id}", ch.UpdateInstance)
			r.Delete("/{id}", ch.DeleteInstance)
			r.Put("/{id}/items/{index}/complete", ch.CompleteItem)
			r.Put("/{id}/items/{index}/uncomplete", ch.UncompleteItem)
		})

		r.With(requireAuth, adminOnly).Post("/seed", ch.Seed)
	})

	return r
}
