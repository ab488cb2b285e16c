package service

import (
	"sort"
	"strings"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

// DefaultBestMatchFloor is the lowest price-to-budget ratio still counted as a best match.
const DefaultBestMatchFloor = 0.8

// SelectEligible drops candidates that can never be bucketed: those without
// a usable price and repeated IDs after the first occurrence.
func SelectEligible(candidates []*domain.Candidate) ([]*domain.Candidate, []domain.SkippedCandidate) {
	eligible := make([]*domain.Candidate, 0, len(candidates))
	var skipped []domain.SkippedCandidate
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if c == nil {
			continue
		}
		if seen[c.ID] {
			skipped = append(skipped, skip(c, domain.SkipReasonDuplicate))
			continue
		}
		seen[c.ID] = true

		if !c.HasValidPrice() {
			skipped = append(skipped, skip(c, domain.SkipReasonInvalidPrice))
			continue
		}
		eligible = append(eligible, c)
	}

	return eligible, skipped
}

func skip(c *domain.Candidate, reason domain.SkipReason) domain.SkippedCandidate {
	return domain.SkippedCandidate{ID: c.ID, Name: c.Name, Reason: reason}
}

// Bucketize partitions scored candidates by price-to-budget ratio alone and
// orders each bucket for presentation. Scores only influence ordering.
func Bucketize(scored []domain.ScoredCandidate, budget, floor float64) *domain.RecommendationResult {
	if floor <= 0 || floor > 1 {
		floor = DefaultBestMatchFloor
	}

	result := &domain.RecommendationResult{
		BestMatch:   []domain.ScoredCandidate{},
		AboveBudget: []domain.ScoredCandidate{},
		BelowBudget: []domain.ScoredCandidate{},
	}
	seen := make(map[string]bool, len(scored))

	for _, sc := range scored {
		c := sc.Candidate
		if c == nil {
			continue
		}
		if seen[c.ID] {
			result.Skipped = append(result.Skipped, skip(c, domain.SkipReasonDuplicate))
			continue
		}
		seen[c.ID] = true

		if !c.HasValidPrice() {
			result.Skipped = append(result.Skipped, skip(c, domain.SkipReasonInvalidPrice))
			continue
		}

		// Same ratio BudgetScore thresholds on, so the floor agrees with
		// the full budget score for any budget.
		ratio := c.Price / budget
		switch {
		case c.Price > budget:
			result.AboveBudget = append(result.AboveBudget, sc)
		case ratio < floor:
			result.BelowBudget = append(result.BelowBudget, sc)
		default:
			result.BestMatch = append(result.BestMatch, sc)
		}
	}

	sortBucket(result.BestMatch)
	sortBucket(result.AboveBudget)
	sortBucket(result.BelowBudget)

	return result
}

// sortBucket orders by total score desc, then price asc, then name
// (case-insensitive), then ID so that the order is total.
func sortBucket(bucket []domain.ScoredCandidate) {
	sort.Slice(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		if a.Scores.TotalScore != b.Scores.TotalScore {
			return a.Scores.TotalScore > b.Scores.TotalScore
		}
		if a.Candidate.Price != b.Candidate.Price {
			return a.Candidate.Price < b.Candidate.Price
		}
		an, bn := strings.ToLower(a.Candidate.Name), strings.ToLower(b.Candidate.Name)
		if an != bn {
			return an < bn
		}
		return a.Candidate.ID < b.Candidate.ID
	})
}
