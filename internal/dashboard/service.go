package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/redis"
)

type statsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service defines the dashboard read surface.
type Service interface {
	Stats(ctx context.Context, partnerID uuid.UUID) (*Stats, error)
}

type service struct {
	repo     Repository
	cache    statsCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds a dashboard service. cache may be nil to disable the
// short-TTL stats cache.
func NewService(repo Repository, cache statsCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
	}, nil
}

// Stats is a pure projection over the ledger and the ownership log. Empty
// tenants yield zeroed numbers and absent "most used" entries, never errors.
func (s *service) Stats(ctx context.Context, partnerID uuid.UUID) (*Stats, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}

	if cached := s.fromCache(ctx, partnerID); cached != nil {
		return cached, nil
	}

	stats := &Stats{}
	var merr error

	counts, err := s.repo.EntityCounts(ctx, partnerID)
	merr = multierr.Append(merr, err)
	stats.Counts = counts

	stats.MostUsedCompany, err = s.repo.MostUsedCompany(ctx, partnerID)
	merr = multierr.Append(merr, err)

	stats.MostUsedVendor, err = s.repo.MostUsedVendor(ctx, partnerID)
	merr = multierr.Append(merr, err)

	stats.MostActiveEmployee, err = s.repo.MostActiveEmployee(ctx, partnerID)
	merr = multierr.Append(merr, err)

	stats.Devices, err = s.repo.DeviceStats(ctx, partnerID)
	merr = multierr.Append(merr, err)

	stats.PaymentModes, err = s.repo.PaymentModeBreakdown(ctx, partnerID)
	merr = multierr.Append(merr, err)

	stats.Financial, err = s.repo.FinancialOverview(ctx, partnerID)
	merr = multierr.Append(merr, err)

	if merr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, merr, "dashboard aggregation")
	}

	s.store(ctx, partnerID, stats)
	return stats, nil
}

func (s *service) fromCache(ctx context.Context, partnerID uuid.UUID) *Stats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(partnerID))
	if err != nil {
		if !redis.IsMiss(err) && s.logg != nil {
			s.logg.Warn(ctx, "dashboard cache read failed")
		}
		return nil
	}
	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

// store caches best-effort; staleness is bounded by the TTL alone.
func (s *service) store(ctx context.Context, partnerID uuid.UUID, stats *Stats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(partnerID), string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "dashboard cache write failed")
	}
}

func (s *service) cacheKey(partnerID uuid.UUID) string {
	return s.cache.CacheKey("dashboard", partnerID.String())
}
