// Package pwnedrange proxies k-anonymity range lookups. The prefix alone
// identifies nobody, so the budget is generous and nothing is cached
// server-side (the transport layer caches via Cache-Control).
package pwnedrange

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"protetor/internal/domain"
	"protetor/internal/metrics"
	"protetor/internal/ports"
)

var prefixRe = regexp.MustCompile(`^[A-Fa-f0-9]{5}$`)

type Config struct {
	RateLimit  int
	RateWindow time.Duration
}

type Service struct {
	api     ports.PasswordRangeAPI
	limiter ports.RateLimiter
	cfg     Config
}

func New(api ports.PasswordRangeAPI, limiter ports.RateLimiter, cfg Config) *Service {
	return &Service{api: api, limiter: limiter, cfg: cfg}
}

// Lookup validates the prefix and forwards it upstream, returning the raw
// SUFFIX:COUNT lines.
func (s *Service) Lookup(ctx context.Context, prefix, clientIP string) (string, error) {
	if !prefixRe.MatchString(prefix) {
		return "", fmt.Errorf("%w: prefix must be 5 hex characters", domain.ErrInvalidInput)
	}

	allowed, err := s.limiter.Allow(ctx, "pwned:"+clientIP, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		allowed = true
	}
	if !allowed {
		metrics.RateLimitRejections.WithLabelValues("pwned").Inc()
		return "", fmt.Errorf("%w: too many requests, wait a minute", domain.ErrRateLimited)
	}
	return s.api.Range(ctx, strings.ToUpper(prefix))
}
