package service

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
)

func scored(id, name string, price, total float64) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Candidate: &domain.Candidate{ID: id, Name: name, Category: domain.CategoryPhotographer, Price: price},
		Scores:    domain.ScoreBreakdown{TotalScore: total},
	}
}

func ids(bucket []domain.ScoredCandidate) []string {
	out := make([]string, len(bucket))
	for i, sc := range bucket {
		out[i] = sc.Candidate.ID
	}
	return out
}

func TestBucketize_Scenario(t *testing.T) {
	result := Bucketize([]domain.ScoredCandidate{
		scored("A", "A", 40000, 0.9),
		scored("B", "B", 60000, 0.5),
		scored("C", "C", 10000, 0.7),
	}, 50000, DefaultBestMatchFloor)

	assert.Equal(t, []string{"A"}, ids(result.BestMatch))
	assert.Equal(t, []string{"B"}, ids(result.AboveBudget))
	assert.Equal(t, []string{"C"}, ids(result.BelowBudget))
	assert.Empty(t, result.Skipped)
}

func TestBucketize_Boundaries(t *testing.T) {
	result := Bucketize([]domain.ScoredCandidate{
		scored("floor", "floor", 40000, 0.5),
		scored("ceiling", "ceiling", 50000, 0.5),
		scored("just-below-floor", "x", 39999.99, 0.5),
		scored("just-over", "y", 50000.01, 0.5),
	}, 50000, DefaultBestMatchFloor)

	assert.ElementsMatch(t, []string{"floor", "ceiling"}, ids(result.BestMatch))
	assert.Equal(t, []string{"just-over"}, ids(result.AboveBudget))
	assert.Equal(t, []string{"just-below-floor"}, ids(result.BelowBudget))
}

func TestBucketize_FractionalBudgetMatchesBudgetScore(t *testing.T) {
	budget := 0.35
	var in []domain.ScoredCandidate
	for i, price := range []float64{0.28, 0.27999999999999997, 0.3, 0.35, 0.27} {
		in = append(in, scored(fmt.Sprintf("c%d", i), "c", price, 0.5))
	}

	result := Bucketize(in, budget, DefaultBestMatchFloor)

	for _, sc := range result.BestMatch {
		assert.Equal(t, 1.0, BudgetScore(sc.Candidate.Price, budget), "price %v", sc.Candidate.Price)
	}
	for _, sc := range result.BelowBudget {
		assert.Less(t, BudgetScore(sc.Candidate.Price, budget), 1.0, "price %v", sc.Candidate.Price)
	}
	assert.Len(t, result.BestMatch, 3)
	assert.Len(t, result.BelowBudget, 2)
}

func TestBucketize_CustomFloor(t *testing.T) {
	result := Bucketize([]domain.ScoredCandidate{scored("a", "a", 35000, 0.5)}, 50000, 0.7)
	assert.Equal(t, []string{"a"}, ids(result.BestMatch))
}

func TestBucketize_Ordering(t *testing.T) {
	result := Bucketize([]domain.ScoredCandidate{
		scored("1", "zeta", 45000, 0.8),
		scored("2", "Alpha", 45000, 0.8),
		scored("3", "beta", 42000, 0.8),
		scored("4", "gamma", 49000, 0.95),
		scored("6", "alpha", 45000, 0.8),
		scored("5", "ALPHA", 45000, 0.8),
	}, 50000, DefaultBestMatchFloor)

	// score desc, price asc, name case-insensitive asc, id asc
	assert.Equal(t, []string{"4", "3", "2", "5", "6", "1"}, ids(result.BestMatch))
}

func TestBucketize_SkipsInvalidPricesAndDuplicates(t *testing.T) {
	result := Bucketize([]domain.ScoredCandidate{
		scored("ok", "ok", 45000, 0.5),
		scored("zero", "zero", 0, 0.5),
		scored("neg", "neg", -10, 0.5),
		scored("nan", "nan", math.NaN(), 0.5),
		scored("ok", "ok again", 45000, 0.5),
	}, 50000, DefaultBestMatchFloor)

	assert.Equal(t, []string{"ok"}, ids(result.BestMatch))
	require.Len(t, result.Skipped, 4)
	reasons := map[string]domain.SkipReason{}
	for _, s := range result.Skipped {
		reasons[s.ID+"/"+s.Name] = s.Reason
	}
	assert.Equal(t, domain.SkipReasonInvalidPrice, reasons["zero/zero"])
	assert.Equal(t, domain.SkipReasonInvalidPrice, reasons["neg/neg"])
	assert.Equal(t, domain.SkipReasonInvalidPrice, reasons["nan/nan"])
	assert.Equal(t, domain.SkipReasonDuplicate, reasons["ok/ok again"])
}

func TestBucketize_Empty(t *testing.T) {
	result := Bucketize(nil, 50000, DefaultBestMatchFloor)

	assert.NotNil(t, result.BestMatch)
	assert.NotNil(t, result.AboveBudget)
	assert.NotNil(t, result.BelowBudget)
	assert.Zero(t, result.Total())
}

func TestBucketize_PartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		budget := 1000 + rng.Float64()*100000
		var input []domain.ScoredCandidate
		invalid := 0
		for i := 0; i < 40; i++ {
			price := rng.Float64() * budget * 2
			if i%9 == 0 {
				price = 0
				invalid++
			}
			input = append(input, scored(fmt.Sprintf("c-%d", i), fmt.Sprintf("n-%d", rng.Intn(5)), price, rng.Float64()))
		}

		result := Bucketize(input, budget, DefaultBestMatchFloor)

		seen := map[string]bool{}
		for _, bucket := range [][]domain.ScoredCandidate{result.BestMatch, result.AboveBudget, result.BelowBudget} {
			for _, sc := range bucket {
				require.False(t, seen[sc.Candidate.ID], "candidate %s in two buckets", sc.Candidate.ID)
				seen[sc.Candidate.ID] = true
			}
		}
		assert.Equal(t, len(input)-invalid, len(seen))
		assert.Len(t, result.Skipped, invalid)

		for _, sc := range result.BestMatch {
			assert.True(t, sc.Candidate.Price >= 0.8*budget && sc.Candidate.Price <= budget)
		}
		for _, sc := range result.AboveBudget {
			assert.Greater(t, sc.Candidate.Price, budget)
		}
		for _, sc := range result.BelowBudget {
			assert.Less(t, sc.Candidate.Price, 0.8*budget)
		}
	}
}

func TestSelectEligible(t *testing.T) {
	candidates := []*domain.Candidate{
		{ID: "a", Name: "A", Price: 10},
		nil,
		{ID: "b", Name: "B", Price: 0},
		{ID: "a", Name: "A copy", Price: 10},
		{ID: "c", Name: "C", Price: math.Inf(1)},
		{ID: "d", Name: "D", Price: 20},
	}

	eligible, skipped := SelectEligible(candidates)

	require.Len(t, eligible, 2)
	assert.Equal(t, "a", eligible[0].ID)
	assert.Equal(t, "d", eligible[1].ID)
	assert.Equal(t, []domain.SkippedCandidate{
		{ID: "b", Name: "B", Reason: domain.SkipReasonInvalidPrice},
		{ID: "a", Name: "A copy", Reason: domain.SkipReasonDuplicate},
		{ID: "c", Name: "C", Reason: domain.SkipReasonInvalidPrice},
	}, skipped)
}
