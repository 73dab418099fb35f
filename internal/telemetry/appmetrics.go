package telemetry

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	appMetricsEnabled bool
	cacheOpsTotal     metric.Int64Counter
)

// Cache operation outcomes recorded by CountCacheOp.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
	CacheOK    = "ok"
)

// InitAppMetrics registers process-level gauges (connection pools) and the
// cache operation counter. Call after InitMetrics.
func InitAppMetrics(serviceName string, pool *pgxpool.Pool, rdb *redis.Client) {
	meter := otel.Meter(serviceName + "/app")

	var err error
	cacheOpsTotal, err = meter.Int64Counter(
		"snipnest_cache_ops_total",
		metric.WithDescription("Cache operations by outcome"),
	)
	if err != nil {
		return
	}
	appMetricsEnabled = true

	dbConns, err1 := meter.Int64ObservableGauge(
		"snipnest_db_pool_acquired_conns",
		metric.WithDescription("Acquired connections in the pgx pool"),
	)
	dbIdle, err2 := meter.Int64ObservableGauge(
		"snipnest_db_pool_idle_conns",
		metric.WithDescription("Idle connections in the pgx pool"),
	)
	redisConns, err3 := meter.Int64ObservableGauge(
		"snipnest_redis_pool_total_conns",
		metric.WithDescription("Total connections in the redis pool"),
	)
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}

	_, _ = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		if pool != nil {
			stat := pool.Stat()
			o.ObserveInt64(dbConns, int64(stat.AcquiredConns()))
			o.ObserveInt64(dbIdle, int64(stat.IdleConns()))
		}
		if rdb != nil {
			o.ObserveInt64(redisConns, int64(rdb.PoolStats().TotalConns))
		}
		return nil
	}, dbConns, dbIdle, redisConns)
}

// CountCacheOp records one cache operation with its outcome label.
func CountCacheOp(ctx context.Context, op, outcome string) {
	if !appMetricsEnabled {
		return
	}
	cacheOpsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.op", op),
		attribute.String("cache.outcome", outcome),
	))
}
