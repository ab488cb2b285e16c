package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "[VALIDATION_ERROR] invalid recommendation request: budget, guests",
		NewValidationError("budget", "guests").Error())

	err := NewUpstreamError("candidates", errors.New("connection refused"))
	assert.Equal(t, "[UPSTREAM_UNAVAILABLE] recommendation data is temporarily unavailable: candidates: connection refused", err.Error())
}

func TestDomainError_Is(t *testing.T) {
	assert.ErrorIs(t, NewValidationError("budget"), ErrInvalidRequest)
	assert.ErrorIs(t, NewUnknownCategoryError("FLORIST"), ErrUnknownCategory)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", NewUpstreamError("history", context.DeadlineExceeded)), ErrUpstreamUnavailable)
	assert.NotErrorIs(t, NewValidationError("budget"), ErrUnknownCategory)
}

func TestNewUpstreamError_KeepsCause(t *testing.T) {
	err := NewUpstreamError("history", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewUnknownCategoryError(t *testing.T) {
	err := NewUnknownCategoryError("FLORIST")
	assert.Equal(t, []string{"serviceType"}, err.Fields)
	assert.Contains(t, err.Error(), `"FLORIST" is not one of VENUE, CATERING, PHOTOGRAPHER, DESIGNER`)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(NewValidationError("budget")))
	assert.True(t, IsClientError(NewUnknownCategoryError("x")))
	assert.False(t, IsClientError(NewUpstreamError("candidates", errors.New("down"))))
	assert.False(t, IsClientError(ErrMissingIdentity))
	assert.False(t, IsClientError(errors.New("plain")))
}

func TestCandidate_HasValidPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  bool
	}{
		{45000, true},
		{0.01, true},
		{0, false},
		{-10, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		c := &Candidate{Price: tt.price}
		assert.Equal(t, tt.want, c.HasValidPrice(), "price %v", tt.price)
	}
}

func TestRecommendationResult_Counts(t *testing.T) {
	r := &RecommendationResult{
		BestMatch:   make([]ScoredCandidate, 2),
		AboveBudget: make([]ScoredCandidate, 1),
		Skipped:     make([]SkippedCandidate, 3),
	}

	assert.Equal(t, map[Bucket]int{BucketBestMatch: 2, BucketAboveBudget: 1, BucketBelowBudget: 0}, r.Counts())
	assert.Equal(t, 3, r.Total())
}
