package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meuhoroscopo/backend/internal/auth"
	"github.com/meuhoroscopo/backend/internal/horoscope"
	"github.com/meuhoroscopo/backend/internal/scheduler"
	"github.com/rs/zerolog/log"
)

// Server represents the API server.
type Server struct {
	router    *chi.Mux
	handlers  *Handlers
	scheduler *scheduler.Scheduler
	addr      string
	server    *http.Server
}

// NewServer creates a new API server.
func NewServer(service *horoscope.Service, sessions *auth.Manager, sched *scheduler.Scheduler, addr string) *Server {
	handlers := NewHandlers(service, sessions)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(sessions.Middleware)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Health
		r.Get("/health", handlers.HealthCheck)

		// Reference data
		r.Get("/signs", handlers.GetSigns)
		r.Get("/categories", handlers.GetCategories)

		// Horoscope content
		r.Route("/horoscope", func(r chi.Router) {
			r.Get("/{signo}", handlers.GetDaily)
			r.Get("/{signo}/{categoria}", handlers.GetCategory)
		})

		// Sessions and votes
		r.Post("/auth/anonymous", handlers.CreateAnonymousSession)
		r.Get("/votes", handlers.GetVote)
		r.Post("/votes", handlers.CastVote)
	})

	// Create server instance for admin routes closure
	srv := &Server{
		router:    r,
		handlers:  handlers,
		scheduler: sched,
		addr:      addr,
	}

	// Admin routes (no auth for development)
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/jobs", srv.AdminGetJobs)
		r.Post("/jobs/{name}/run", srv.AdminRunJob)
	})

	return srv
}

// Start starts the API server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ============================================================================
// ADMIN HANDLERS
// ============================================================================

// AdminGetJobs returns the status of all scheduled jobs.
func (s *Server) AdminGetJobs(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available")
		return
	}

	jobs := s.scheduler.GetJobStatus()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// AdminRunJob runs a specific job by name.
func (s *Server) AdminRunJob(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available")
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Job name is required")
		return
	}

	if err := s.scheduler.RunJobNow(name); err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Job triggered: " + name,
	})
}
