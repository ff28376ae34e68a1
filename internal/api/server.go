package api

import (
	"log/slog"
	"net/http"

	"github.com/dhisync/synccore/internal/config"
	"github.com/dhisync/synccore/internal/extract"
	"github.com/dhisync/synccore/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for the contract pipeline.
type Server struct {
	router  chi.Router
	service *pipeline.Service
	stats   *extract.LLMStats
	model   string
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil, in
// which case the stats endpoint reports itself unavailable.
func NewServer(svc *pipeline.Service, stats *extract.LLMStats, model string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		service: svc,
		stats:   stats,
		model:   model,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/ingest", s.handleIngest)
		r.Post("/graph", s.handleGraph)
		r.Get("/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"engine":  "Surgical_v2",
		"message": "Sync Intelligence Core is ready.",
	})
}
