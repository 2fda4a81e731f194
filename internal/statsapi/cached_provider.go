package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/cache"
	"github.com/yourusername/nba-edge/internal/models"
)

// CachedProvider wraps a Provider with an injectable cache so repeated
// lookups within the TTL do not hit the stats API again. The cache is
// passed in rather than owned, per the rest of the module's wiring.
type CachedProvider struct {
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
	logger   *logrus.Logger
}

// NewCachedProvider decorates a provider with caching.
func NewCachedProvider(provider Provider, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

// Name returns the underlying provider name.
func (p *CachedProvider) Name() string {
	return p.provider.Name()
}

// Ping delegates to the underlying provider when it supports it.
func (p *CachedProvider) Ping(ctx context.Context) error {
	if pinger, ok := p.provider.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// GetTeamEfficiency retrieves ratings with caching.
func (p *CachedProvider) GetTeamEfficiency(ctx context.Context, teamName string) (models.TeamEfficiency, error) {
	key := "efficiency:" + normalizeTeamName(teamName)

	if raw, err := p.cache.Get(ctx, key); err == nil {
		var eff models.TeamEfficiency
		if err := json.Unmarshal(raw, &eff); err == nil {
			p.updateHitRatio()
			return eff, nil
		}
		p.logger.WithField("key", key).Warn("Corrupt cache entry, refetching")
	}

	eff, err := p.provider.GetTeamEfficiency(ctx, teamName)
	if err != nil {
		return models.TeamEfficiency{}, err
	}

	if raw, err := json.Marshal(eff); err == nil {
		if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
			p.logger.WithError(err).Debug("Failed to cache team efficiency")
		}
	}
	p.updateHitRatio()
	return eff, nil
}

// GetRecentPerformance retrieves the recent win fraction with caching.
func (p *CachedProvider) GetRecentPerformance(ctx context.Context, teamName string, games int) (float64, error) {
	key := fmt.Sprintf("recent:%s:%d", normalizeTeamName(teamName), games)

	if raw, err := p.cache.Get(ctx, key); err == nil {
		if pct, err := strconv.ParseFloat(string(raw), 64); err == nil {
			p.updateHitRatio()
			return pct, nil
		}
	}

	pct, err := p.provider.GetRecentPerformance(ctx, teamName, games)
	if err != nil {
		return 0, err
	}

	if err := p.cache.Set(ctx, key, []byte(strconv.FormatFloat(pct, 'f', -1, 64)), p.ttl); err != nil {
		p.logger.WithError(err).Debug("Failed to cache recent performance")
	}
	p.updateHitRatio()
	return pct, nil
}

func (p *CachedProvider) updateHitRatio() {
	ProviderCacheHitRatio.Set(cache.HitRatio(p.cache))
}
