package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"skillfit/internal/engine"
	"skillfit/internal/observability"
	"skillfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// validateSkillPair checks that both skill sets are present and that at least
// one of them has content. A one-sided-empty pair is allowed; the engine
// reports it as unmatched requirements rather than an error. Returns a
// human-readable field name and error on failure.
func validateSkillPair(cv, jd *types.SkillSet) (string, error) {
	if cv == nil {
		return "cvSkills", fmt.Errorf("cvSkills field is required")
	}
	if jd == nil {
		return "jdSkills", fmt.Errorf("jdSkills field is required")
	}
	if engine.ValidateSkillSet(*cv) != nil && engine.ValidateSkillSet(*jd) != nil {
		return "cvSkills", fmt.Errorf("cvSkills and jdSkills cannot both be empty")
	}
	return "", nil
}

// createCompareHandler wraps the compare handler with observability
func (s *Server) createCompareHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("skillfit.api")
		ctx, span := tracer.Start(ctx, "api.compare")
		defer span.End()

		// Parse request
		var req CompareRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if field, err := validateSkillPair(req.CVSkills, req.JDSkills); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid "+field, err.Error(), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.cv_skill_count", req.CVSkills.TotalSkills()),
			attribute.Int("request.jd_skill_count", req.JDSkills.TotalSkills()),
			attribute.String("operation", "compare"),
		)

		metrics := om.GetMetrics()
		var report *types.ComparisonReport
		err := metrics.TrackEngineOperation(ctx, "compare", func(ctx context.Context) error {
			var engineErr error
			report, engineErr = s.engine.Compare(ctx, *req.CVSkills, *req.JDSkills)
			return engineErr
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine_processing"))
			metrics.RecordBusinessMetric(ctx, "comparison_run", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to compare skill sets", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordComparisonOutcome(ctx, report, om)
		metrics.RecordBusinessMetric(ctx, "comparison_run", true, om,
			attribute.Int("matched_count", report.Summary.MatchedCount),
			attribute.Int("missing_count", report.Summary.MissingCount))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.matched_count", report.Summary.MatchedCount),
			attribute.Float64("response.match_rate", report.Summary.MatchRatePercent),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createScoreHandler wraps the score handler with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("skillfit.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if field, err := validateSkillPair(req.CVSkills, req.JDSkills); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid "+field, err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.cv_skill_count", req.CVSkills.TotalSkills()),
			attribute.Int("request.jd_skill_count", req.JDSkills.TotalSkills()),
			attribute.Bool("request.has_analysis", req.Analysis != nil),
			attribute.String("operation", "score"),
		)

		input := types.ScoreInput{
			CVSkills: *req.CVSkills,
			JDSkills: *req.JDSkills,
			Analysis: req.Analysis,
		}

		metrics := om.GetMetrics()
		var result *types.ScoreResult
		err := metrics.TrackEngineOperation(ctx, "score", func(ctx context.Context) error {
			var engineErr error
			result, engineErr = s.engine.Score(ctx, input)
			return engineErr
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine_processing"))
			metrics.RecordBusinessMetric(ctx, "score_computed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to compute score", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordComparisonOutcome(ctx, &result.Comparison, om)
		metrics.RecordScoreOutcome(ctx, &result.Breakdown, om)
		metrics.RecordBusinessMetric(ctx, "score_computed", true, om,
			attribute.String("status", string(result.Breakdown.CategoryStatus)),
			attribute.Bool("low_confidence", result.Breakdown.LowConfidence))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.final_score", result.Breakdown.FinalATSScore),
			attribute.String("response.status", string(result.Breakdown.CategoryStatus)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// recommendResponse bundles the rendered prompt with the score it is based on
type recommendResponse struct {
	Prompt string             `json:"prompt"`
	Score  *types.ScoreResult `json:"score"`
}

// createRecommendHandler wraps the recommend handler with observability
func (s *Server) createRecommendHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("skillfit.api")
		ctx, span := tracer.Start(ctx, "api.recommend")
		defer span.End()

		var req RecommendRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if field, err := validateSkillPair(req.CVSkills, req.JDSkills); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid "+field, err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.cv_skill_count", req.CVSkills.TotalSkills()),
			attribute.Int("request.jd_skill_count", req.JDSkills.TotalSkills()),
			attribute.Bool("request.has_analysis", req.Analysis != nil),
			attribute.String("operation", "recommend"),
		)

		input := types.ScoreInput{
			CVSkills: *req.CVSkills,
			JDSkills: *req.JDSkills,
			Analysis: req.Analysis,
		}

		metrics := om.GetMetrics()
		var prompt *types.RecommendationPrompt
		var result *types.ScoreResult
		err := metrics.TrackEngineOperation(ctx, "recommend", func(ctx context.Context) error {
			var engineErr error
			prompt, result, engineErr = s.engine.Recommend(ctx, input)
			return engineErr
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine_processing"))
			metrics.RecordBusinessMetric(ctx, "recommendation_assembled", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to assemble recommendation", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordComparisonOutcome(ctx, &result.Comparison, om)
		metrics.RecordScoreOutcome(ctx, &result.Breakdown, om)
		metrics.RecordBusinessMetric(ctx, "recommendation_assembled", true, om,
			attribute.Int("prompt_length", len(prompt.Prompt)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.prompt_length", len(prompt.Prompt)),
			attribute.Float64("response.final_score", result.Breakdown.FinalATSScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(recommendResponse{Prompt: prompt.Prompt, Score: result}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
