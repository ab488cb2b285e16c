package repository

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/domain"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
)

const (
	historyKeyPrefix       = "eventmatch:history:"
	DefaultHistoryCacheTTL = 5 * time.Minute
)

// HistorySource is the authoritative history store behind the cache.
type HistorySource interface {
	FindUserHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
}

// CachedHistoryRepository reads history through a Redis cache. Cache faults
// are logged and fall through to the source; only source errors propagate.
type CachedHistoryRepository struct {
	client *redis.Client
	source HistorySource
	ttl    time.Duration
}

func NewCachedHistoryRepository(client *redis.Client, source HistorySource, ttl time.Duration) *CachedHistoryRepository {
	if ttl <= 0 {
		ttl = DefaultHistoryCacheTTL
	}
	return &CachedHistoryRepository{client: client, source: source, ttl: ttl}
}

func historyKey(userID string) string {
	return historyKeyPrefix + userID
}

func (r *CachedHistoryRepository) FindUserHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	key := historyKey(userID)

	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var history []domain.HistoryEntry
		jsonErr := json.Unmarshal(val, &history)
		if jsonErr == nil {
			return history, nil
		}
		logging.Ctx(ctx).Warn().Err(jsonErr).Str("key", key).Msg("discarding malformed history cache entry")
	case errors.Is(err, redis.Nil):
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		logging.Ctx(ctx).Warn().Err(err).Msg("history cache read failed, falling back to source")
	}

	history, err := r.source.FindUserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(history)
	if err == nil {
		err = r.client.Set(ctx, key, data, r.ttl).Err()
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("history cache write failed")
	}

	return history, nil
}
