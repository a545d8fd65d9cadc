package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jdehlin/aigent/internal/chat"
	"github.com/jdehlin/aigent/internal/gateway"
	"github.com/jdehlin/aigent/internal/handlers"
	"github.com/jdehlin/aigent/internal/imagegen"
	"github.com/jdehlin/aigent/internal/middleware"
	"github.com/jdehlin/aigent/internal/settings"
	"github.com/jdehlin/aigent/internal/transport"
	"github.com/jdehlin/aigent/internal/websearch"
)

// Server hosts the dispatch gateway as a local HTTP daemon.
type Server struct {
	settings *settings.Manager
	store    *chat.Store
	gateway  *gateway.Gateway
	images   *imagegen.Service
	version  string
	logger   *slog.Logger
	server   *http.Server
}

func New(mgr *settings.Manager, store *chat.Store, version string, logger *slog.Logger) *Server {
	registry := transport.NewRegistry()
	registry.Initialize()

	searcher := websearch.New(mgr.TavilyKey, logger)
	gw := gateway.New(registry, mgr, mgr, logger, gateway.WithSearcher(searcher))

	return &Server{
		settings: mgr,
		store:    store,
		gateway:  gw,
		images:   imagegen.New(mgr, logger),
		version:  version,
		logger:   logger,
	}
}

// Start runs the server until an interrupt or SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	cfg := s.settings.Get()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRoutes(),
	}

	s.logger.Info("Starting server", "address", addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited")
	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	askHandler := handlers.NewAskHandler(s.gateway, s.store, s.logger)
	imagesHandler := handlers.NewImagesHandler(s.images, s.logger)
	conversationsHandler := handlers.NewConversationsHandler(s.store, s.logger)
	healthHandler := handlers.NewHealthHandler(s.version, s.logger)

	set := middleware.NewSet(s.settings, s.logger)

	mux.Handle("/health", set.HealthChain().Handler(healthHandler))
	mux.Handle("/v1/ask", set.DefaultChain().Handler(askHandler.Single()))
	mux.Handle("/v1/ask/all", set.DefaultChain().Handler(askHandler.FanOut()))
	mux.Handle("/v1/images", set.DefaultChain().Handler(imagesHandler.Single()))
	mux.Handle("/v1/images/all", set.DefaultChain().Handler(imagesHandler.FanOut()))
	mux.Handle("/v1/conversations", set.DefaultChain().Handler(conversationsHandler))
	mux.Handle("/v1/conversations/", set.DefaultChain().Handler(conversationsHandler))

	return mux
}
