package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/middleware"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/service"
)

type RecommendationService interface {
	Recommend(ctx context.Context, raw map[string]any) (*service.Recommendation, error)
}

// ImageSigner turns a stored image key into a short-lived URL.
type ImageSigner interface {
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

type RecommendationHandler struct {
	svc    RecommendationService
	signer ImageSigner
}

// NewRecommendationHandler creates the handler. signer may be nil, in which
// case entries carry no imageUrl.
func NewRecommendationHandler(svc RecommendationService, signer ImageSigner) *RecommendationHandler {
	return &RecommendationHandler{svc: svc, signer: signer}
}

type ScoresResponse struct {
	Budget          float64  `json:"budget"`
	Location        float64  `json:"location"`
	Capacity        *float64 `json:"capacity"`
	Personalization float64  `json:"personalization"`
}

type CandidateResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	PriceUnit   string         `json:"priceUnit"`
	Location    string         `json:"location"`
	Capacity    *int           `json:"capacity,omitempty"`
	EventTypes  []string       `json:"eventTypes"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	TotalScore  float64        `json:"totalScore"`
	Scores      ScoresResponse `json:"scores"`
}

type BucketsResponse struct {
	BestMatch   []CandidateResponse `json:"best_match"`
	AboveBudget []CandidateResponse `json:"above_budget"`
	BelowBudget []CandidateResponse `json:"below_budget"`
}

type TotalsResponse struct {
	BestMatch   int `json:"best_match"`
	AboveBudget int `json:"above_budget"`
	BelowBudget int `json:"below_budget"`
	Skipped     int `json:"skipped"`
	Total       int `json:"total"`
}

type FiltersResponse struct {
	Budget       float64 `json:"budget"`
	Location     string  `json:"location,omitempty"`
	Guests       int     `json:"guests,omitempty"`
	EventType    string  `json:"eventType,omitempty"`
	ServiceType  string  `json:"serviceType"`
	Personalized bool    `json:"personalized"`
}

type SkippedResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type MetadataResponse struct {
	TotalResults   TotalsResponse    `json:"total_results"`
	FiltersApplied FiltersResponse   `json:"filters_applied"`
	Skipped        []SkippedResponse `json:"skipped,omitempty"`
	Timestamp      string            `json:"timestamp"`
}

type RecommendationResponse struct {
	Recommendations BucketsResponse  `json:"recommendations"`
	Metadata        MetadataResponse `json:"metadata"`
}

// Recommend handles POST /recommendations.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			api.Error(w, http.StatusBadRequest, "request body is required")
		default:
			api.Error(w, http.StatusBadRequest, "invalid request body")
		}
		return
	}
	if raw == nil {
		api.Error(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	// The caller's identity is never taken from the body.
	delete(raw, service.FieldUserID)
	if userID := middleware.GetUserID(ctx); userID != "" {
		raw[service.FieldUserID] = userID
	}

	rec, err := h.svc.Recommend(ctx, raw)
	if err != nil {
		api.HandleError(ctx, w, err)
		return
	}

	api.JSON(w, http.StatusOK, h.toResponse(ctx, rec))
}

func (h *RecommendationHandler) toResponse(ctx context.Context, rec *service.Recommendation) RecommendationResponse {
	res := rec.Result
	req := rec.Request

	skipped := make([]SkippedResponse, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		skipped = append(skipped, SkippedResponse{ID: s.ID, Name: s.Name, Reason: string(s.Reason)})
	}

	return RecommendationResponse{
		Recommendations: BucketsResponse{
			BestMatch:   h.entries(ctx, res.BestMatch),
			AboveBudget: h.entries(ctx, res.AboveBudget),
			BelowBudget: h.entries(ctx, res.BelowBudget),
		},
		Metadata: MetadataResponse{
			TotalResults: TotalsResponse{
				BestMatch:   len(res.BestMatch),
				AboveBudget: len(res.AboveBudget),
				BelowBudget: len(res.BelowBudget),
				Skipped:     len(res.Skipped),
				Total:       res.Total(),
			},
			FiltersApplied: FiltersResponse{
				Budget:       req.Budget,
				Location:     req.Location,
				Guests:       req.Guests,
				EventType:    req.EventType,
				ServiceType:  string(req.ServiceType),
				Personalized: req.UserID != "",
			},
			Skipped:   skipped,
			Timestamp: rec.GeneratedAt.UTC().Format(time.RFC3339),
		},
	}
}

func (h *RecommendationHandler) entries(ctx context.Context, scored []domain.ScoredCandidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(scored))
	for _, sc := range scored {
		c := sc.Candidate
		entry := CandidateResponse{
			ID:          c.ID,
			Name:        c.Name,
			Category:    string(c.Category),
			Price:       c.Price,
			Location:    c.Location,
			Capacity:    c.Capacity,
			EventTypes:  c.EventTypes,
			Description: c.Description,
			TotalScore:  sc.Scores.TotalScore,
			Scores: ScoresResponse{
				Budget:          sc.Scores.BudgetScore,
				Location:        sc.Scores.LocationScore,
				Capacity:        sc.Scores.CapacityScore,
				Personalization: sc.Scores.PersonalizationScore,
			},
		}
		if entry.EventTypes == nil {
			entry.EventTypes = []string{}
		}
		if spec, ok := domain.SpecFor(c.Category); ok {
			entry.PriceUnit = string(spec.PriceUnit)
		}
		entry.ImageURL = h.imageURL(ctx, c)
		out = append(out, entry)
	}
	return out
}

func (h *RecommendationHandler) imageURL(ctx context.Context, c *domain.Candidate) string {
	if h.signer == nil || c.ImageKey == "" {
		return ""
	}
	url, err := h.signer.GenerateDownloadURL(ctx, c.ImageKey)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("service_id", c.ID).Msg("failed to sign image url")
		return ""
	}
	return url
}
