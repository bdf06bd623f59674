// Package httpapi exposes formulary.FindBestMatches over HTTP: a JSON
// request/response endpoint, a websocket endpoint that streams search
// progress, and a health endpoint.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/refresh"
)

// Server wraps the HTTP router and its dependencies.
type Server struct {
	router    *chi.Mux
	refresher *refresh.Refresher
	log       zerolog.Logger
	devMode   bool
	server    *http.Server
}

// New builds a Server that reads the catalog from refresher on every
// request.
func New(refresher *refresh.Refresher, log zerolog.Logger, devMode bool) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		refresher: refresher,
		log:       log.With().Str("component", "httpapi").Logger(),
		devMode:   devMode,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if !s.devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/matches", s.handleMatches)
		r.Get("/matches/stream", s.handleMatchesStream)
	})
}

// loggingMiddleware logs one line per request, stamping a correlation UUID
// onto the request context alongside chi's own RequestID, since one HTTP
// request corresponds to exactly one search query.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		queryID := uuid.NewString()
		ctx := withQueryID(r.Context(), queryID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("query_id", queryID).
			Msg("HTTP request")
	})
}

// ServeHTTP implements http.Handler so Server can be passed directly to
// http.Server or httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve starts an http.Server on addr and blocks until it exits.
func (s *Server) Serve(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.log.Info().Str("addr", addr).Msg("HTTP server listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type queryIDKey struct{}

func withQueryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, queryIDKey{}, id)
}

func queryIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(queryIDKey{}).(string)
	return id
}
