// Package breach implements the breach-by-email capability: validate,
// rate-limit, consult the cache, call the upstream, normalize, cache.
package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"protetor/internal/domain"
	"protetor/internal/metrics"
	"protetor/internal/ports"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Config struct {
	RateLimit  int
	RateWindow time.Duration
	CacheTTL   time.Duration
}

type Service struct {
	api     ports.BreachAPI
	cache   ports.Cache
	limiter ports.RateLimiter
	cfg     Config
	group   singleflight.Group
	now     func() time.Time
}

func New(api ports.BreachAPI, cache ports.Cache, limiter ports.RateLimiter, cfg Config) *Service {
	return &Service{api: api, cache: cache, limiter: limiter, cfg: cfg, now: time.Now}
}

// Check looks up breaches for email on behalf of clientIP. Identical
// concurrent lookups are collapsed to a single upstream call.
func (s *Service) Check(ctx context.Context, email, clientIP string) (domain.BreachReport, error) {
	var zero domain.BreachReport

	if !emailRe.MatchString(email) {
		return zero, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if s.api == nil {
		return zero, fmt.Errorf("%w: breach API key not set", domain.ErrMisconfigured)
	}

	allowed, err := s.limiter.Allow(ctx, "breach:"+clientIP, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		// Rate limiting is best-effort; a broken store fails open.
		log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		allowed = true
	}
	if !allowed {
		metrics.RateLimitRejections.WithLabelValues("breach").Inc()
		return zero, fmt.Errorf("%w: query limit reached, try again in an hour", domain.ErrRateLimited)
	}

	key := "hibp:" + strings.ToLower(email)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("cache read failed")
		metrics.CacheOps.WithLabelValues("breach", "error").Inc()
	} else if ok {
		var report domain.BreachReport
		if uerr := json.Unmarshal(raw, &report); uerr != nil {
			log.Warn().Err(uerr).Msg("discarding undecodable cache entry")
		} else {
			metrics.CacheOps.WithLabelValues("breach", "hit").Inc()
			report.Cached = true
			return report, nil
		}
	} else {
		metrics.CacheOps.WithLabelValues("breach", "miss").Inc()
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.lookup(ctx, strings.ToLower(email), key)
	})
	if err != nil {
		return zero, err
	}
	return v.(domain.BreachReport), nil
}

func (s *Service) lookup(ctx context.Context, email, cacheKey string) (domain.BreachReport, error) {
	upstream, err := s.api.BreachedAccount(ctx, email)
	if err != nil {
		return domain.BreachReport{}, err
	}

	records := make([]domain.BreachRecord, 0, len(upstream))
	for _, b := range upstream {
		records = append(records, normalize(b))
	}
	report := domain.BreachReport{
		Breaches:      records,
		TotalBreaches: len(records),
		CheckedAt:     s.now().UTC(),
		Source:        "hibp-v3",
	}

	raw, err := json.Marshal(report)
	if err == nil {
		if err := s.cache.Set(ctx, cacheKey, raw, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return report, nil
}

func normalize(b ports.UpstreamBreach) domain.BreachRecord {
	dataClasses := b.DataClasses
	if dataClasses == nil {
		dataClasses = []string{}
	}
	return domain.BreachRecord{
		Name:         b.Name,
		Title:        b.Title,
		Domain:       b.Domain,
		Date:         b.BreachDate,
		AddedDate:    b.AddedDate,
		ExposedData:  dataClasses,
		PwnCount:     b.PwnCount,
		Description:  domain.StripHTML(b.Description),
		Severity:     domain.ClassifySeverity(dataClasses),
		IsVerified:   b.IsVerified,
		IsFabricated: b.IsFabricated,
		IsSensitive:  b.IsSensitive,
	}
}
