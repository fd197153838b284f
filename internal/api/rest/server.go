package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/cache"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/feed"
)

// FeedFetcher loads and parses a feed document
type FeedFetcher interface {
	Fetch(ctx context.Context, location string) (*feed.Document, error)
}

// Generator builds an index feed of posts
type Generator interface {
	Generate(
		doc *feed.Document,
		posts []entity.PostContent,
		params *entity.FeedParams,
		imageURL func(entity.PostContent) string,
	) ([]byte, error)
}

// Renderer draws a post as a JPEG image
type Renderer interface {
	RenderJPEG(ctx context.Context, ch entity.ChannelInfo, post entity.PostContent) ([]byte, error)
	Profile() entity.Profile
}

// Server represents the REST API server
type Server struct {
	mux       *http.ServeMux
	server    *http.Server
	logger    *slog.Logger
	cache     cache.Cache
	fetcher   FeedFetcher
	generator Generator
	renderer  Renderer
	config    *entity.Config
	port      string
}

// NewServer creates a new REST API server
func NewServer(c cache.Cache, f FeedFetcher, g Generator, r Renderer, config *entity.Config) *Server {
	mux := http.NewServeMux()
	logger := app.Logger()
	port := config.HTTPServerPort

	if port == "" {
		port = entity.DefaultHTTPServerPort
	}

	server := &Server{
		mux:       mux,
		logger:    logger,
		cache:     c,
		fetcher:   f,
		generator: g,
		renderer:  r,
		config:    config,
		port:      port,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           nil,               // Will be set in Run
			ReadHeaderTimeout: 10 * time.Second,  // Mitigate Slowloris
			ReadTimeout:       30 * time.Second,  // Time to read entire request (including body)
			WriteTimeout:      90 * time.Second,  // Rendering fetches every image of a post
			IdleTimeout:       120 * time.Second, // Keep-alive timeout
		},
	}

	server.registerHandlers()

	return server
}

// registerHandlers sets up all API routes
func (s *Server) registerHandlers() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	NewWeiboHandler(s.mux, s.cache, s.fetcher, s.generator, s.renderer, s.config)
}

// Handler is the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return Logger(Recoverer(s.mux))
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	s.server.Handler = s.Handler()

	// Set BaseContext to pass the parent context
	s.server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	// Register shutdown handler
	s.server.RegisterOnShutdown(func() {
		s.logger.Info("Server is shutting down...")
	})

	// Start server in a goroutine
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	// Create a timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited gracefully")

	return nil
}
