// Package ratelimit bounds the number of requests a client may make inside a
// fixed time window. Counting is delegated to a Store so that the same limiter
// can run against process memory or a shared Redis instance.
package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Rule configures one limiter instance.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a single Check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Store counts hits per key inside fixed windows. Hit must increment
// atomically for a given key.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// Limiter applies a Rule to client keys.
type Limiter struct {
	rule  Rule
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func New(rule Rule, store Store, log zerolog.Logger) *Limiter {
	return &Limiter{
		rule:  rule,
		store: store,
		log:   log.With().Str("limiter", rule.Name).Logger(),
		now:   time.Now,
	}
}

func (l *Limiter) Rule() Rule { return l.rule }

// Check records a hit for clientKey and reports whether it fits the window.
// A failing store lets the request through.
func (l *Limiter) Check(ctx context.Context, clientKey string) Decision {
	if l.rule.Limit <= 0 || l.rule.Window <= 0 {
		return Decision{Allowed: true, Limit: l.rule.Limit}
	}

	count, resetAt, err := l.store.Hit(ctx, l.rule.Name+":"+clientKey, l.rule.Window)
	if err != nil {
		l.log.Warn().Err(err).Str("key", clientKey).Msg("rate limit store failed, allowing request")
		return Decision{Allowed: true, Limit: l.rule.Limit, Remaining: l.rule.Limit}
	}

	remaining := l.rule.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	dec := Decision{
		Allowed:   count <= int64(l.rule.Limit),
		Limit:     l.rule.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !dec.Allowed {
		dec.RetryAfter = resetAt.Sub(l.now())
		if dec.RetryAfter < time.Second {
			dec.RetryAfter = time.Second
		}
	}
	return dec
}
