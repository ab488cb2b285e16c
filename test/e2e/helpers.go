//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/handlers"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/repository"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/server"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/service"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	Pool       *pgxpool.Pool
	Redis      *miniredis.Miniredis
	Server     *httptest.Server
	HTTPClient *http.Client
}

// SetupE2EEnv starts Postgres, applies migrations and serves the full router
// backed by real repositories with the Redis history cache in front.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	settings := repository.DefaultBreakerSettings()
	candidates := repository.NewBreakerCandidateRepository(repository.NewCandidateRepository(pool), settings)
	history := repository.NewBreakerHistoryRepository(
		repository.NewCachedHistoryRepository(rdb, repository.NewHistoryRepository(pool, 0), time.Minute),
		settings,
	)

	svc := service.NewRecommendationService(candidates, history)
	router := server.NewRouter(server.RouterConfig{
		RecommendationHandler: handlers.NewRecommendationHandler(svc, nil),
		HealthHandler:         handlers.NewHealthHandler(map[string]handlers.HealthCheck{"database": pool.Ping}),
		CORSAllowedOrigins:    []string{"*"},
	})

	return &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  pgC,
		Pool:       pool,
		Redis:      mr,
		Server:     httptest.NewServer(router),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Recommend posts body to /recommendations as userID and decodes a 200
// response. Other statuses are returned with a nil response.
func (e *E2ETestEnv) Recommend(body map[string]any, userID string) (int, *handlers.RecommendationResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(e.Ctx, http.MethodPost, e.Server.URL+"/recommendations", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, nil
	}

	var out handlers.RecommendationResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode response: %w (%s)", err, raw)
	}
	return resp.StatusCode, &out, nil
}

func ids(entries []handlers.CandidateResponse) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
