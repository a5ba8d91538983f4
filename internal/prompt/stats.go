package prompt

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

// UsageRow is the single aggregated pass over generated-content rows for
// one version. The rating sum/count split lets the aggregator distinguish
// "no rated rows" from "average is zero".
type UsageRow struct {
	Generated  int64
	Reviewed   int64
	RatedCount int64
	RatingSum  int64
	Success    int64
	Failure    int64
	Pending    int64
}

// UsageReader produces a UsageRow in one scan rather than per-metric
// queries.
type UsageReader interface {
	UsageByVersion(ctx context.Context, versionID uuid.UUID) (UsageRow, error)
}

// StatsCache is the subset of the cache the aggregator uses. Stale reads
// within the TTL are acceptable.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type UsageStats struct {
	GeneratedCount   int64    `json:"generated_count"`
	ReviewedCount    int64    `json:"reviewed_count"`
	ReviewPercentage float64  `json:"review_percentage"`
	AverageRating    *float64 `json:"average_rating"`
	SuccessCount     int64    `json:"success_count"`
	FailureCount     int64    `json:"failure_count"`
	PendingCount     int64    `json:"pending_count"`
}

// StatsAggregator computes per-version usage statistics with an optional
// TTL cache in front.
type StatsAggregator struct {
	reader UsageReader
	cache  StatsCache
	ttl    time.Duration
}

func NewStatsAggregator(reader UsageReader, cache StatsCache, ttl time.Duration) *StatsAggregator {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsAggregator{reader: reader, cache: cache, ttl: ttl}
}

func (a *StatsAggregator) StatsFor(ctx context.Context, versionID uuid.UUID) (*UsageStats, error) {
	key := statsCacheKey(versionID)

	if a.cache != nil {
		var cached UsageStats
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	row, err := a.reader.UsageByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	stats := &UsageStats{
		GeneratedCount: row.Generated,
		ReviewedCount:  row.Reviewed,
		SuccessCount:   row.Success,
		FailureCount:   row.Failure,
		PendingCount:   row.Pending,
	}
	if row.Generated > 0 {
		stats.ReviewPercentage = round2(float64(row.Reviewed) / float64(row.Generated) * 100)
	}
	if row.RatedCount > 0 {
		avg := round2(float64(row.RatingSum) / float64(row.RatedCount))
		stats.AverageRating = &avg
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, stats, a.ttl); err != nil {
			slog.Warn("stats cache set failed", "version_id", versionID, "error", err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached stats for a version. Best effort.
func (a *StatsAggregator) Invalidate(ctx context.Context, versionID uuid.UUID) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, statsCacheKey(versionID)); err != nil {
		slog.Warn("stats cache invalidate failed", "version_id", versionID, "error", err)
	}
}

func statsCacheKey(versionID uuid.UUID) string {
	return "prompt:stats:" + versionID.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
