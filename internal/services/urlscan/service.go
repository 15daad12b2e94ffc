// Package urlscan implements URL safety checks against the threat-match
// upstream, one direct lookup per request.
package urlscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"protetor/internal/domain"
	"protetor/internal/metrics"
	"protetor/internal/ports"
)

type Config struct {
	RateLimit  int
	RateWindow time.Duration
	CacheTTL   time.Duration
}

type Service struct {
	api     ports.ThreatMatchAPI
	cache   ports.Cache
	limiter ports.RateLimiter
	cfg     Config
	now     func() time.Time
}

func New(api ports.ThreatMatchAPI, cache ports.Cache, limiter ports.RateLimiter, cfg Config) *Service {
	return &Service{api: api, cache: cache, limiter: limiter, cfg: cfg, now: time.Now}
}

// Scan checks one URL. The normalized URL is the cache fingerprint; cached
// results keep their original latency measurement.
func (s *Service) Scan(ctx context.Context, rawurl, clientIP string) (domain.ScanResult, error) {
	var zero domain.ScanResult

	parsed, err := url.Parse(rawurl)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return zero, fmt.Errorf("%w: URL must be absolute http or https", domain.ErrInvalidInput)
	}
	if s.api == nil {
		return zero, fmt.Errorf("%w: threat API key not set", domain.ErrUnavailable)
	}

	allowed, err := s.limiter.Allow(ctx, "scan:"+clientIP, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		allowed = true
	}
	if !allowed {
		metrics.RateLimitRejections.WithLabelValues("scan").Inc()
		return zero, fmt.Errorf("%w: too many requests, wait a minute", domain.ErrRateLimited)
	}

	normalized := parsed.String()
	key := "scan:" + normalized
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("cache read failed")
		metrics.CacheOps.WithLabelValues("scan", "error").Inc()
	} else if ok {
		var result domain.ScanResult
		if err := json.Unmarshal(raw, &result); err == nil {
			metrics.CacheOps.WithLabelValues("scan", "hit").Inc()
			result.Cached = true
			return result, nil
		}
	} else {
		metrics.CacheOps.WithLabelValues("scan", "miss").Inc()
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(parsed.Hostname())
	if err != nil {
		registrable = parsed.Hostname()
	}

	start := s.now()
	threats, err := s.api.FindThreats(ctx, normalized)
	if err != nil {
		return zero, err
	}
	result := domain.ScanResult{
		Safe:      len(threats) == 0,
		Threats:   threats,
		Domain:    registrable,
		Method:    "direct_lookup",
		Latency:   fmt.Sprintf("%dms", s.now().Sub(start).Milliseconds()),
		CheckedAt: s.now().UTC(),
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return result, nil
}
