package service

import (
	"math"
	"strings"
	"unicode"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

// NeutralScore is returned whenever a dimension lacks enough signal.
const NeutralScore = 0.5

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// BudgetScore rewards spending close to, but not over, the budget.
func BudgetScore(price, budget float64) float64 {
	if !usable(price) || !usable(budget) {
		return NeutralScore
	}

	if price <= budget {
		ratio := price / budget
		switch {
		case ratio >= 0.8:
			return 1.0
		case ratio >= 0.6:
			return 0.9
		case ratio >= 0.4:
			return 0.8
		default:
			return 0.7
		}
	}

	over := (price - budget) / budget
	switch {
	case over <= 0.1:
		return 0.6
	case over <= 0.2:
		return 0.4
	case over <= 0.3:
		return 0.2
	default:
		return 0.0
	}
}

// LocationScore is a textual heuristic; no geocoding is involved.
func LocationScore(candidateLocation, userLocation string) float64 {
	cand := normalizeText(candidateLocation)
	user := normalizeText(userLocation)
	if cand == "" || user == "" {
		return NeutralScore
	}

	if cand == user {
		return 1.0
	}
	if strings.Contains(cand, user) || strings.Contains(user, cand) {
		return 0.8
	}

	candTokens := tokenizeLocation(cand)
	userTokens := tokenizeLocation(user)

	matches := 0
	for _, ct := range candTokens {
		for _, ut := range userTokens {
			if ct == ut || strings.Contains(ct, ut) || strings.Contains(ut, ct) {
				matches++
				break
			}
		}
	}
	if matches == 0 {
		return 0.2
	}

	denom := max(len(candTokens), len(userTokens))
	return math.Min(0.7, 0.3+(float64(matches)/float64(denom))*0.7)
}

// CapacityScore returns nil for categories without a capacity dimension.
func CapacityScore(spec domain.CategorySpec, capacity *int, guests int) *float64 {
	if !spec.HasCapacity {
		return nil
	}

	score := capacityFit(capacity, guests)
	return &score
}

func capacityFit(capacity *int, guests int) float64 {
	if capacity == nil || *capacity <= 0 || guests <= 0 {
		return NeutralScore
	}

	ratio := float64(*capacity) / float64(guests)
	switch {
	case ratio < 1.0:
		return 0.1
	case ratio < 1.1:
		return 0.9
	case ratio < 1.3:
		return 1.0
	case ratio < 1.5:
		return 0.9
	case ratio < 2.0:
		return 0.7
	case ratio < 3.0:
		return 0.5
	default:
		return 0.3
	}
}

// PersonalizationScore gives a fixed boost when any past interaction overlaps
// the candidate on location, price or an event-type tag.
func PersonalizationScore(c *domain.Candidate, history []domain.HistoryEntry) float64 {
	if c == nil || len(history) == 0 {
		return NeutralScore
	}

	location := normalizeText(c.Location)
	tags := tagSet(c.EventTypes)

	for _, h := range history {
		if location != "" && normalizeText(h.Location) == location {
			return 0.8
		}
		if usable(c.Price) && h.Price == c.Price {
			return 0.8
		}
		if len(tags) > 0 {
			for _, t := range h.EventTypes {
				if tags[normalizeText(t)] {
					return 0.8
				}
			}
		}
	}
	return NeutralScore
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func tokenizeLocation(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func tagSet(tags []string) map[string]bool {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		if n := normalizeText(t); n != "" {
			set[n] = true
		}
	}
	return set
}
