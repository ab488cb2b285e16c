package jobs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/metrics"
)

// PoolStats is a point-in-time sample of connection pool usage.
type PoolStats struct {
	Total        int32
	Idle         int32
	Acquired     int32
	EmptyAcquire int64
}

// PoolStatsSource supplies pool samples.
type PoolStatsSource interface {
	Stats() PoolStats
}

// PgxPoolStats adapts a pgx pool to PoolStatsSource.
type PgxPoolStats struct {
	Pool *pgxpool.Pool
}

func (p PgxPoolStats) Stats() PoolStats {
	stat := p.Pool.Stat()
	return PoolStats{
		Total:        stat.TotalConns(),
		Idle:         stat.IdleConns(),
		Acquired:     stat.AcquiredConns(),
		EmptyAcquire: stat.EmptyAcquireCount(),
	}
}

// PoolStatsCollector copies connection pool statistics into Prometheus gauges.
type PoolStatsCollector struct {
	source PoolStatsSource
}

// NewPoolStatsCollector creates a collector for the given source
func NewPoolStatsCollector(source PoolStatsSource) *PoolStatsCollector {
	return &PoolStatsCollector{source: source}
}

// ProcessJobs samples the pool once.
func (c *PoolStatsCollector) ProcessJobs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats := c.source.Stats()
	metrics.DBPoolConnections.WithLabelValues("total").Set(float64(stats.Total))
	metrics.DBPoolConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	metrics.DBPoolConnections.WithLabelValues("acquired").Set(float64(stats.Acquired))
	metrics.DBPoolAcquireWaits.Set(float64(stats.EmptyAcquire))
	return nil
}
