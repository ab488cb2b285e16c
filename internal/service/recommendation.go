package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/metrics"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/telemetry"
)

// CandidateRepositoryInterface supplies approved candidates for a category
type CandidateRepositoryInterface interface {
	FindApprovedCandidates(ctx context.Context, category domain.ServiceCategory) ([]*domain.Candidate, error)
}

// HistoryRepositoryInterface supplies a user's past interactions
type HistoryRepositoryInterface interface {
	FindUserHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
}

// RecommendationServiceConfig holds tunables for the engine
type RecommendationServiceConfig struct {
	Weights        Weights
	BestMatchFloor float64
	Timeout        time.Duration
	ScoringWorkers int
}

// DefaultRecommendationServiceConfig returns the stock engine settings
func DefaultRecommendationServiceConfig() RecommendationServiceConfig {
	return RecommendationServiceConfig{
		Weights:        DefaultWeights(),
		BestMatchFloor: DefaultBestMatchFloor,
		Timeout:        5 * time.Second,
		ScoringWorkers: 8,
	}
}

// Recommendation is one engine run together with the request it answered.
type Recommendation struct {
	Request     *domain.RecommendationRequest
	Result      *domain.RecommendationResult
	GeneratedAt time.Time
}

// RecommendationService scores and buckets candidates for a request
type RecommendationService struct {
	candidates CandidateRepositoryInterface
	history    HistoryRepositoryInterface
	config     RecommendationServiceConfig
	now        func() time.Time
}

// NewRecommendationService creates a service with default settings
func NewRecommendationService(candidates CandidateRepositoryInterface, history HistoryRepositoryInterface) *RecommendationService {
	return NewRecommendationServiceWithConfig(candidates, history, DefaultRecommendationServiceConfig())
}

// NewRecommendationServiceWithConfig creates a service with custom settings.
// Invalid values fall back to their defaults.
func NewRecommendationServiceWithConfig(candidates CandidateRepositoryInterface, history HistoryRepositoryInterface, cfg RecommendationServiceConfig) *RecommendationService {
	defaults := DefaultRecommendationServiceConfig()
	if err := cfg.Weights.Validate(); err != nil {
		logging.Warn().Err(err).Msg("invalid scoring weights, using defaults")
		cfg.Weights = defaults.Weights
	}
	if cfg.BestMatchFloor <= 0 || cfg.BestMatchFloor > 1 {
		cfg.BestMatchFloor = defaults.BestMatchFloor
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.ScoringWorkers <= 0 {
		cfg.ScoringWorkers = defaults.ScoringWorkers
	}

	return &RecommendationService{
		candidates: candidates,
		history:    history,
		config:     cfg,
		now:        time.Now,
	}
}

// Recommend normalises raw input, reads candidates and history, then scores
// and buckets. Either read failing or timing out aborts the whole call.
func (s *RecommendationService) Recommend(ctx context.Context, raw map[string]any) (*Recommendation, error) {
	req, err := Normalize(raw)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("invalid", outcomeLabel(err)).Inc()
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "RecommendationService.Recommend", telemetry.SpanAttributes{
		UserID:      req.UserID,
		ServiceType: string(req.ServiceType),
		Operation:   "recommend",
	})
	defer span.End()

	start := s.now()
	result, err := s.recommend(ctx, req)
	metrics.RecommendationDuration.WithLabelValues(string(req.ServiceType)).Observe(time.Since(start).Seconds())
	metrics.RecommendationsTotal.WithLabelValues(string(req.ServiceType), outcomeLabel(err)).Inc()
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	span.SetData("best_match", len(result.BestMatch))
	span.SetData("above_budget", len(result.AboveBudget))
	span.SetData("below_budget", len(result.BelowBudget))

	return &Recommendation{Request: req, Result: result, GeneratedAt: s.now().UTC()}, nil
}

func (s *RecommendationService) recommend(ctx context.Context, req *domain.RecommendationRequest) (*domain.RecommendationResult, error) {
	candidates, history, err := s.load(ctx, req)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("service_type", string(req.ServiceType)).
			Msg("recommendation aborted: upstream read failed")
		return nil, err
	}

	eligible, skipped := SelectEligible(candidates)
	scored, err := s.scoreAll(ctx, req, eligible, history)
	if err != nil {
		return nil, err
	}

	result := Bucketize(scored, req.Budget, s.config.BestMatchFloor)
	result.Skipped = append(skipped, result.Skipped...)

	for bucket, n := range result.Counts() {
		metrics.BucketSize.WithLabelValues(string(bucket)).Observe(float64(n))
	}
	for _, sk := range result.Skipped {
		metrics.SkippedCandidatesTotal.WithLabelValues(string(sk.Reason)).Inc()
	}

	logging.Ctx(ctx).Debug().
		Str("service_type", string(req.ServiceType)).
		Int("candidates", len(candidates)).
		Int("history", len(history)).
		Int("best_match", len(result.BestMatch)).
		Int("above_budget", len(result.AboveBudget)).
		Int("below_budget", len(result.BelowBudget)).
		Int("skipped", len(result.Skipped)).
		Msg("recommendation computed")

	return result, nil
}

// load issues the candidate and history reads concurrently under the
// configured timeout. History is skipped for anonymous requests.
func (s *RecommendationService) load(ctx context.Context, req *domain.RecommendationRequest) ([]*domain.Candidate, []domain.HistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var (
		candidates []*domain.Candidate
		history    []domain.HistoryEntry
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ctx, span := telemetry.StartSpan(gctx, "CandidateRepository.FindApprovedCandidates", telemetry.SpanAttributes{
			ServiceType: string(req.ServiceType),
		})
		defer span.End()

		found, err := s.candidates.FindApprovedCandidates(ctx, req.ServiceType)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("candidates").Inc()
			return domain.NewUpstreamError("candidates", err)
		}
		candidates = found
		return nil
	})

	if req.UserID != "" && s.history != nil {
		g.Go(func() error {
			ctx, span := telemetry.StartSpan(gctx, "HistoryRepository.FindUserHistory", telemetry.SpanAttributes{
				UserID: req.UserID,
			})
			defer span.End()

			found, err := s.history.FindUserHistory(ctx, req.UserID)
			if err != nil {
				metrics.UpstreamErrorsTotal.WithLabelValues("history").Inc()
				return domain.NewUpstreamError("history", err)
			}
			history = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		telemetry.AddBreadcrumb(ctx, "upstream", err.Error())
		return nil, nil, err
	}
	// A read that ignores cancellation may still return after the deadline.
	if err := ctx.Err(); err != nil {
		return nil, nil, domain.NewUpstreamError("deadline", err)
	}

	return candidates, history, nil
}

// scoreAll scores candidates on a bounded pool. Each goroutine writes only
// its own slot, so no locking is needed.
func (s *RecommendationService) scoreAll(ctx context.Context, req *domain.RecommendationRequest, eligible []*domain.Candidate, history []domain.HistoryEntry) ([]domain.ScoredCandidate, error) {
	scored := make([]domain.ScoredCandidate, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.ScoringWorkers)

	for i, c := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = ScoreCandidate(req, c, history, s.config.Weights)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.NewUpstreamError("scoring", fmt.Errorf("cancelled before scoring finished: %w", err))
	}
	return scored, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return domain.ErrCodeInternalError
}
