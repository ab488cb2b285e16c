package domain

// RecommendationRequest is a validated, canonical set of event constraints.
// Guests is only required when the category's CategorySpec sets RequiresGuests.
type RecommendationRequest struct {
	Budget      float64         `json:"budget" validate:"required,gt=0"`
	Location    string          `json:"location"`
	Guests      int             `json:"guests" validate:"gte=0"`
	EventType   string          `json:"eventType" validate:"max=100"`
	ServiceType ServiceCategory `json:"serviceType" validate:"required"`
	UserID      string          `json:"userId,omitempty" validate:"max=128"`
}

// ScoreBreakdown holds the per-dimension scores for one candidate.
// CapacityScore is nil when the category has no capacity.
type ScoreBreakdown struct {
	BudgetScore          float64  `json:"budget"`
	LocationScore        float64  `json:"location"`
	CapacityScore        *float64 `json:"capacity"`
	PersonalizationScore float64  `json:"personalization"`
	TotalScore           float64  `json:"total"`
}

// ScoredCandidate pairs a candidate with its breakdown.
type ScoredCandidate struct {
	Candidate *Candidate
	Scores    ScoreBreakdown
}

// Bucket names one of the three result partitions
type Bucket string

const (
	BucketBestMatch   Bucket = "best_match"
	BucketAboveBudget Bucket = "above_budget"
	BucketBelowBudget Bucket = "below_budget"
)

// SkipReason explains why a candidate is absent from every bucket
type SkipReason string

const (
	SkipReasonInvalidPrice SkipReason = "invalid_price"
	SkipReasonDuplicate    SkipReason = "duplicate"
)

// SkippedCandidate records a candidate excluded from bucketing.
type SkippedCandidate struct {
	ID     string
	Name   string
	Reason SkipReason
}

// RecommendationResult is the request-scoped output of the engine.
type RecommendationResult struct {
	BestMatch   []ScoredCandidate
	AboveBudget []ScoredCandidate
	BelowBudget []ScoredCandidate
	Skipped     []SkippedCandidate
}

// Counts returns bucket sizes keyed by bucket name.
func (r *RecommendationResult) Counts() map[Bucket]int {
	return map[Bucket]int{
		BucketBestMatch:   len(r.BestMatch),
		BucketAboveBudget: len(r.AboveBudget),
		BucketBelowBudget: len(r.BelowBudget),
	}
}

// Total returns the number of bucketed candidates.
func (r *RecommendationResult) Total() int {
	return len(r.BestMatch) + len(r.AboveBudget) + len(r.BelowBudget)
}
