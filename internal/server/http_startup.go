package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillfit/internal/ai"
	"skillfit/internal/engine"
	"skillfit/internal/observability"
)

// Start starts the HTTP server with all configured components
func (s *Server) Start() error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	if err := s.initializeEngine(om); err != nil {
		return err
	}

	if err := s.startRulesWatcher(); err != nil {
		return err
	}

	httpServer := s.setupHTTPServer(om)

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initializeEngine builds the scoring engine once for the lifetime of the
// server. In rules mode the matcher is kept for hot reload; in ai mode the
// matcher reports token usage into the metrics pipeline.
func (s *Server) initializeEngine(om *observability.ObservabilityManager) error {
	matcher, err := s.buildMatcher(om)
	if err != nil {
		return err
	}

	eng, err := engine.New(matcher, s.AppConfig.Engine.Scoring, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to build scoring engine: %w", err)
	}

	s.engine = eng
	return nil
}

// buildMatcher selects the semantic matcher from configuration
func (s *Server) buildMatcher(om *observability.ObservabilityManager) (engine.SemanticMatcher, error) {
	if s.AppConfig.Engine.Matcher.Mode == "ai" {
		matchConfig := s.AppConfig.GetMatchConfig()
		matchService, err := ai.NewService(&matchConfig, "match", s.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI matcher: %w", err)
		}

		matcher := ai.NewMatcher(matchService)
		matcher.SetUsageReporter(func(usage *ai.TokenUsage, matchErr error, duration time.Duration) {
			om.GetMetrics().RecordAIMatchUsage(context.Background(),
				(*observability.TokenUsage)(usage), matchErr, duration.Seconds(), om)
		})

		s.aiMatcher = matcher
		return matcher, nil
	}

	if rulesFile := s.AppConfig.Engine.Matcher.RulesFile; rulesFile != "" {
		matcher, err := engine.NewRuleMatcherFromFile(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load matcher rules: %w", err)
		}
		s.ruleMatcher = matcher
		return matcher, nil
	}

	matcher := engine.NewRuleMatcher()
	s.ruleMatcher = matcher
	return matcher, nil
}

// startRulesWatcher starts the rules file watcher when hot reload is enabled.
// Reload only applies to the rule matcher; the AI matcher has no file state.
func (s *Server) startRulesWatcher() error {
	reloadCfg := s.AppConfig.Engine.Matcher.Reload
	rulesFile := s.AppConfig.Engine.Matcher.RulesFile

	if !reloadCfg.Enabled || rulesFile == "" || s.ruleMatcher == nil {
		return nil
	}

	watcher, err := NewRulesWatcher(rulesFile, reloadCfg.DebounceDelay, func() {
		if err := s.ruleMatcher.LoadRules(rulesFile); err != nil {
			s.Logger.LogError(err, "Failed to reload matcher rules",
				"rules_file", rulesFile)
			return
		}
		s.Logger.Info("Matcher rules reloaded", "rules_file", rulesFile)
	}, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create rules watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start rules watcher: %w", err)
	}

	s.rulesWatcher = watcher
	return nil
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	mux := s.setupRoutes(om)
	handler := om.HTTPMiddleware()(mux)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"matcher_mode", s.AppConfig.Engine.Matcher.Mode)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Wait for either a signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop rules watcher if running
	if err := s.stopRulesWatcher(); err != nil {
		s.Logger.LogError(err, "Failed to stop rules watcher")
	}

	// Release the AI provider connection if one is held
	s.closeAIMatcher()

	// Clean up rate limiter if enabled
	s.cleanupRateLimiter()

	// Attempt graceful shutdown of HTTP server
	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// stopRulesWatcher stops the rules watcher if it's running
func (s *Server) stopRulesWatcher() error {
	if s.rulesWatcher != nil {
		return s.rulesWatcher.Stop()
	}
	return nil
}

// closeAIMatcher releases the AI matcher's provider resources
func (s *Server) closeAIMatcher() {
	if s.aiMatcher != nil {
		if err := s.aiMatcher.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close AI matcher")
		}
	}
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
