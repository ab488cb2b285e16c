package service

import (
	"fmt"
	"math"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

// Weights are the relative importance of each scoring dimension. They need
// not sum to one; Aggregate renormalises over the dimensions that apply.
type Weights struct {
	Budget          float64
	Location        float64
	Capacity        float64
	Personalization float64
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		Budget:          0.35,
		Location:        0.25,
		Capacity:        0.25,
		Personalization: 0.15,
	}
}

// Validate rejects negative, non-finite or all-zero weights.
func (w Weights) Validate() error {
	for _, d := range []domain.Dimension{
		domain.DimensionBudget,
		domain.DimensionLocation,
		domain.DimensionCapacity,
		domain.DimensionPersonalization,
	} {
		v := w.forDimension(d)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be a finite non-negative number, got %v", d, v)
		}
	}
	if w.Budget+w.Location+w.Capacity+w.Personalization == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

func (w Weights) forDimension(d domain.Dimension) float64 {
	switch d {
	case domain.DimensionBudget:
		return w.Budget
	case domain.DimensionLocation:
		return w.Location
	case domain.DimensionCapacity:
		return w.Capacity
	case domain.DimensionPersonalization:
		return w.Personalization
	}
	return 0
}

// Aggregate computes the weighted total over the category's dimensions.
// A nil capacity score drops the capacity dimension even when the category
// would normally carry it.
func Aggregate(spec domain.CategorySpec, b domain.ScoreBreakdown, w Weights) float64 {
	var sum, weightSum float64
	for _, d := range spec.Dimensions() {
		var score float64
		switch d {
		case domain.DimensionBudget:
			score = b.BudgetScore
		case domain.DimensionLocation:
			score = b.LocationScore
		case domain.DimensionCapacity:
			if b.CapacityScore == nil {
				continue
			}
			score = *b.CapacityScore
		case domain.DimensionPersonalization:
			score = b.PersonalizationScore
		}

		weight := w.forDimension(d)
		sum += weight * score
		weightSum += weight
	}

	if weightSum == 0 {
		return NeutralScore
	}
	return clamp01(sum / weightSum)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return NeutralScore
	}
	return math.Max(0, math.Min(1, v))
}

// ScoreCandidate runs every scorer for one candidate and aggregates the result.
func ScoreCandidate(req *domain.RecommendationRequest, c *domain.Candidate, history []domain.HistoryEntry, w Weights) domain.ScoredCandidate {
	spec, ok := domain.SpecFor(c.Category)
	if !ok {
		spec, _ = domain.SpecFor(req.ServiceType)
	}

	b := domain.ScoreBreakdown{
		BudgetScore:          BudgetScore(c.Price, req.Budget),
		LocationScore:        LocationScore(c.Location, req.Location),
		CapacityScore:        CapacityScore(spec, c.Capacity, req.Guests),
		PersonalizationScore: PersonalizationScore(c, history),
	}
	b.TotalScore = Aggregate(spec, b, w)

	return domain.ScoredCandidate{Candidate: c, Scores: b}
}
