package repository

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/metrics"
)

// BreakerSettings tunes the circuit breakers around collaborator reads.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

func newBreaker[T any](name string, s BreakerSettings) *gobreaker.CircuitBreaker[T] {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = DefaultBreakerSettings().ConsecutiveFailures
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// The caller giving up says nothing about the collaborator's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func execute[T any](cb *gobreaker.CircuitBreaker[T], fn func() (T, error)) (T, error) {
	result, err := cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "failure").Inc()
	}
	return result, err
}

// CandidateFinder is the read the engine needs from the candidate store.
type CandidateFinder interface {
	FindApprovedCandidates(ctx context.Context, category domain.ServiceCategory) ([]*domain.Candidate, error)
}

// BreakerCandidateRepository fails fast while the candidate store is unhealthy.
type BreakerCandidateRepository struct {
	next CandidateFinder
	cb   *gobreaker.CircuitBreaker[[]*domain.Candidate]
}

func NewBreakerCandidateRepository(next CandidateFinder, s BreakerSettings) *BreakerCandidateRepository {
	return &BreakerCandidateRepository{
		next: next,
		cb:   newBreaker[[]*domain.Candidate]("candidates", s),
	}
}

func (r *BreakerCandidateRepository) FindApprovedCandidates(ctx context.Context, category domain.ServiceCategory) ([]*domain.Candidate, error) {
	return execute(r.cb, func() ([]*domain.Candidate, error) {
		return r.next.FindApprovedCandidates(ctx, category)
	})
}

// BreakerHistoryRepository fails fast while the history store is unhealthy.
type BreakerHistoryRepository struct {
	next HistorySource
	cb   *gobreaker.CircuitBreaker[[]domain.HistoryEntry]
}

func NewBreakerHistoryRepository(next HistorySource, s BreakerSettings) *BreakerHistoryRepository {
	return &BreakerHistoryRepository{
		next: next,
		cb:   newBreaker[[]domain.HistoryEntry]("history", s),
	}
}

func (r *BreakerHistoryRepository) FindUserHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	return execute(r.cb, func() ([]domain.HistoryEntry, error) {
		return r.next.FindUserHistory(ctx, userID)
	})
}
