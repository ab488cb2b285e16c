package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/handlers"
)

func intPtr(v int) *int { return &v }

func TestRunRecommend_PrintsBuckets(t *testing.T) {
	var gotBody RecommendRequest
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recommendations", r.URL.Path)
		gotUser = r.Header.Get("X-User-ID")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		resp := handlers.RecommendationResponse{
			Recommendations: handlers.BucketsResponse{
				BestMatch: []handlers.CandidateResponse{
					{ID: "v1", Name: "Seaside Hall", Price: 45000, PriceUnit: "flat", Location: "Bulan City", Capacity: intPtr(150), TotalScore: 0.925},
				},
				AboveBudget: []handlers.CandidateResponse{
					{ID: "v2", Name: "Grand Ballroom", Price: 60000, PriceUnit: "flat", TotalScore: 0.41},
				},
				BelowBudget: []handlers.CandidateResponse{},
			},
			Metadata: handlers.MetadataResponse{
				TotalResults: handlers.TotalsResponse{BestMatch: 1, AboveBudget: 1, Skipped: 1, Total: 2},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	api := NewAPIClientWithConfig(srv.URL+"/", "user-9")
	var out bytes.Buffer

	err := runRecommend(context.Background(), api, RecommendRequest{Budget: 50000, Guests: 100, ServiceType: "VENUE"}, false, &out)

	require.NoError(t, err)
	assert.Equal(t, "user-9", gotUser)
	assert.Equal(t, RecommendRequest{Budget: 50000, Guests: 100, ServiceType: "VENUE"}, gotBody)

	text := out.String()
	assert.Contains(t, text, "Best match (1)")
	assert.Contains(t, text, "1. Seaside Hall  45000.00  score 0.925")
	assert.Contains(t, text, "Capacity: 150")
	assert.Contains(t, text, "Above budget (1)")
	assert.NotContains(t, text, "Below budget")
	assert.Contains(t, text, "2 results (1 skipped)")
}

func TestRunRecommend_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recommendations":{"best_match":[],"above_budget":[],"below_budget":[]},"metadata":{"total_results":{"total":0}}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := runRecommend(context.Background(), NewAPIClientWithConfig(srv.URL, ""), RecommendRequest{Budget: 1, ServiceType: "DESIGNER"}, true, &out)

	require.NoError(t, err)
	var decoded handlers.RecommendationResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 0, decoded.Metadata.TotalResults.Total)
}

func TestRunRecommend_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recommendations":{},"metadata":{"total_results":{"total":0}}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := runRecommend(context.Background(), NewAPIClientWithConfig(srv.URL, ""), RecommendRequest{Budget: 1, ServiceType: "DESIGNER"}, false, &out)

	require.NoError(t, err)
	assert.Equal(t, "No matching services found.\n", out.String())
}

func TestRunRecommend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid recommendation request","code":"VALIDATION_ERROR","fields":["guests"]}`))
	}))
	defer srv.Close()

	err := runRecommend(context.Background(), NewAPIClientWithConfig(srv.URL, ""), RecommendRequest{Budget: 1, ServiceType: "VENUE"}, false, io.Discard)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, []string{"guests"}, apiErr.Fields)
	assert.Contains(t, err.Error(), "(guests)")
}

func TestRunRecommend_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream gateway down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := runRecommend(context.Background(), NewAPIClientWithConfig(srv.URL, ""), RecommendRequest{Budget: 1, ServiceType: "VENUE"}, false, io.Discard)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream gateway down", apiErr.Message)
}

func TestNewAPIClientWithCmd_Cascade(t *testing.T) {
	t.Setenv(envAPIURL, "http://env.example")
	t.Setenv(envUserID, "env-user")

	cmd := RecommendCmd()
	cmd.Flags().String("api-url", "", "")
	cmd.Flags().String("user-id", "", "")
	require.NoError(t, cmd.Flags().Set("user-id", "flag-user"))

	api := NewAPIClientWithCmd(cmd)

	assert.Equal(t, "http://env.example", api.baseURL)
	assert.Equal(t, "flag-user", api.userID)
}

func TestNewAPIClientWithCmd_Default(t *testing.T) {
	t.Setenv(envAPIURL, "")
	t.Setenv(envUserID, "")

	api := NewAPIClientWithCmd(nil)

	assert.Equal(t, defaultAPIURL, api.baseURL)
	assert.Empty(t, api.userID)
}
