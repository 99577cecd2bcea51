// Package pipeline orchestrates upstream providers into the envelopes the
// HTTP surface returns: a sequential price tier loop, a single-shot earnings
// lookup and a concurrent news fan-out.
package pipeline

import (
    "log/slog"
    "time"

    "marketproxy/internal/aggregate"
)

type settings struct {
    logger      *slog.Logger
    now         func() time.Time
    maxArticles int
}

func newSettings(options []Option) settings {
    s := settings{
        logger:      slog.Default(),
        now:         time.Now,
        maxArticles: aggregate.DefaultMaxArticles,
    }
    for _, option := range options {
        option(&s)
    }
    return s
}

// Option configures a pipeline.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
    return func(s *settings) {
        if logger != nil { s.logger = logger }
    }
}

// WithClock overrides the time source used for fetchedAt stamps.
func WithClock(now func() time.Time) Option {
    return func(s *settings) {
        if now != nil { s.now = now }
    }
}

// WithMaxArticles caps the merged news list.
func WithMaxArticles(n int) Option {
    return func(s *settings) {
        if n > 0 { s.maxArticles = n }
    }
}
