package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"skillfit/internal/ai"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a comprehensive health check endpoint including matcher status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "skillfit",
		"version": s.Version,
	}

	// Check matcher availability
	matcherStatus := s.checkMatcherHealth()
	response["matcher"] = matcherStatus

	// Determine overall health status
	overallHealthy := true
	if available, exists := matcherStatus["available"]; exists {
		if avail, ok := available.(bool); ok && !avail {
			overallHealthy = false
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkMatcherHealth reports the health of the active semantic matcher.
// The rule matcher is always available; the AI matcher depends on the
// remote model and its circuit breaker.
func (s *Server) checkMatcherHealth() map[string]any {
	mode := s.AppConfig.Engine.Matcher.Mode

	if mode != "ai" {
		status := map[string]any{
			"mode":      "rules",
			"available": true,
		}
		if rulesFile := s.AppConfig.Engine.Matcher.RulesFile; rulesFile != "" {
			status["rules_file"] = rulesFile
		}
		if s.rulesWatcher != nil {
			status["hot_reload"] = map[string]any{
				"enabled": true,
				"running": s.rulesWatcher.IsRunning(),
			}
		} else {
			status["hot_reload"] = map[string]any{"enabled": false}
		}
		return status
	}

	// Use configurable health check timeout
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	status := map[string]any{
		"mode": "ai",
	}

	matchConfig := s.AppConfig.GetMatchConfig()
	matchService, err := ai.NewService(&matchConfig, "match", s.Logger)
	if err != nil {
		status["available"] = false
		status["error"] = fmt.Sprintf("Failed to create match service: %v", err)
		return status
	}

	status["model"] = matchService.GetModelInfo(ctx)
	status["available"] = true
	status["circuit_breaker"] = map[string]any{
		"available": true,
		"message":   "Circuit breaker integrated with match service",
	}

	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "skillfit",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"matcher": map[string]any{
			"mode": s.AppConfig.Engine.Matcher.Mode,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
