package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/matcher"
	"github.com/go-chi/chi/v5"
)

// maxProgramBytes caps the size of a posted program document.
const maxProgramBytes = 4 << 20

// Server holds dependencies for HTTP handlers.
type Server struct {
	m      *matcher.Matcher
	opts   builder.Options
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the API open.
func New(m *matcher.Matcher, opts builder.Options, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		m:      m,
		opts:   opts,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
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

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Post("/validate", s.handleValidate)
		r.Get("/exercises", s.handleSearchExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/resolve", s.handleResolve)
	})
}
