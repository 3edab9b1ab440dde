package cache

import (
	"context"
	"time"

	"warungkilat/backend/internal/domain"
)

// ReportCache holds precomputed period statistics. A miss or a cache error
// both mean "recompute from the ledger"; the cache is never authoritative.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.PeriodStats, bool, error)
	Set(ctx context.Context, key string, value *domain.PeriodStats, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.PeriodStats, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.PeriodStats, _ time.Duration) error {
	return nil
}
