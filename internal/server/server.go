package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/ironcoach/internal/lookup"
	"github.com/meltforce/ironcoach/internal/session"
	"github.com/meltforce/ironcoach/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	sessions *session.Registry
	lookup   *lookup.Client
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, sessions *session.Registry, lookupClient *lookup.Client, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		sessions: sessions,
		lookup:   lookupClient,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		// Measurements and body composition
		r.Post("/measurements", s.handleUpsertMeasurement)
		r.Get("/measurements", s.handleListMeasurements)
		r.Delete("/measurements/{id}", s.handleDeleteMeasurement)
		r.Post("/bodycomp/evaluate", s.handleEvaluate)

		// Workout sessions. The manager is keyed by (workout, athlete);
		// load hydrates it and the rest of the verbs drive it.
		r.Route("/workouts/{id}/session", func(r chi.Router) {
			r.Post("/load", s.handleSessionLoad)
			r.Get("/", s.handleSessionSnapshot)
			r.Post("/start", s.handleSessionStart)
			r.Post("/toggle", s.handleSessionToggle)
			r.Post("/cancel", s.handleSessionCancel)
			r.Post("/complete", s.handleSessionComplete)
			r.Post("/feedback", s.handleSessionFeedback)
			r.Post("/pending/resume", s.handlePendingResume)
			r.Post("/pending/discard", s.handlePendingDiscard)
			r.Post("/pending/finish", s.handlePendingFinish)
		})

		// Read-only history, also the remote MCP data path
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}/sets", s.handleListSessionSets)

		// Exercise catalog (best-effort external lookup)
		r.Get("/exercises", s.handleExerciseSearch)
		r.Get("/exercises/{id}", s.handleExerciseDemo)
	})
}
