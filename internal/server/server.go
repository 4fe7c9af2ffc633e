// Package server exposes survey sessions over HTTP: the interactive map page,
// a JSON/GeoJSON API and the file downloads.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/session"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

// DatasetLoader loads one survey dataset per session.
type DatasetLoader interface {
	Load(ctx context.Context) (*survey.Dataset, error)
}

// MapSettings are the Leaflet parameters passed to the page.
type MapSettings struct {
	TileURL      string `json:"tile_url"`
	Attribution  string `json:"attribution"`
	MarkerRadius int    `json:"marker_radius"`
}

// Options configure a Server.
type Options struct {
	Map         MapSettings
	RenderRPS   float64
	RenderBurst int
	CORSOrigins []string
}

// Server serves survey sessions.
type Server struct {
	loader   DatasetLoader
	store    *session.Store
	exporter *present.Exporter
	limiter  *rate.Limiter
	opts     Options
}

// New creates a Server. Image exports share one token bucket of
// RenderRPS renders per second.
func New(loader DatasetLoader, store *session.Store, exporter *present.Exporter, opts Options) *Server {
	if opts.RenderRPS <= 0 {
		opts.RenderRPS = 1
	}
	if opts.RenderBurst < 1 {
		opts.RenderBurst = 1
	}
	if opts.Map.MarkerRadius <= 0 {
		opts.Map.MarkerRadius = 6
	}
	return &Server{
		loader:   loader,
		store:    store,
		exporter: exporter,
		limiter:  rate.NewLimiter(rate.Limit(opts.RenderRPS), opts.RenderBurst),
		opts:     opts,
	}
}

// Routes returns the HTTP handler for every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/", s.handlePage)
	r.Get("/health", s.handleHealth)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Get("/columns", s.handleColumns)
			r.Get("/frequencies", s.handleFrequencies)
			r.Get("/points", s.handlePoints)
			r.Get("/export.{format}", s.handleExport)
		})
	})

	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
