package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxfinder/jobs"
	"github.com/sig-0/fxfinder/server/config"
	"github.com/sig-0/fxfinder/tasks"
)

// RoutesFn is a callback that receives a router for registering routes
type RoutesFn func(router chi.Router)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Server struct {
	logger *slog.Logger
	config *config.Config

	jobs  *jobs.Orchestrator
	tasks *tasks.Service

	mux *chi.Mux
}

// New creates a new server instance
func New(orchestrator *jobs.Orchestrator, service *tasks.Service, opts ...Option) (*Server, error) {
	s := &Server{
		logger: noopLogger,
		jobs:   orchestrator,
		tasks:  service,
		config: config.DefaultConfig(),
		mux:    chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(r *http.Request, respStatus int) bool {
			// Status polling is too chatty to log
			if r.Method == http.MethodGet && r.URL.Path == "/status" {
				return true
			}

			return respStatus == 404 || respStatus == 405
		},
	}))

	// Register the health check handler
	s.mux.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	s.Routes(s.registerRoutes)

	return s, nil
}

// registerRoutes registers the job and documentation endpoints
func (s *Server) registerRoutes(r chi.Router) {
	// Job submission
	r.Post("/get_rate_data", s.GetRateData)
	r.Post("/find_best_and_nearest", s.FindBestAndNearest)
	r.Post("/get_historical_chart_data", s.GetHistoricalChartData)
	r.Post("/get_gemini_analysis", s.GetGeminiAnalysis)

	// Job polling
	r.Get("/status", s.Status)
	r.Get("/jobs/{id}", s.Job)
	r.Get("/jobs/{id}/chart.png", s.JobChart)

	r.Get("/currencies", s.Currencies)

	r.Get("/openapi.yaml", s.OpenAPI)
	r.Get("/docs", s.Redoc)
}

// Routes calls fn with the server mux so callers can add endpoints
func (s *Server) Routes(fn RoutesFn) {
	if fn == nil {
		return
	}

	fn(s.mux)
}

// ServeHTTP serves the request using the server mux
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve serves the fxfinder service
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			fmt.Sprintf(
				"server started at %s",
				ln.Addr().String(),
			),
		)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}
