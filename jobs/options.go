package jobs

import (
	"log/slog"
	"time"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithResultTTL specifies how long finished job statuses are kept.
// Defaults to 1h
func WithResultTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.resultTTL = ttl
	}
}

// WithSweepSpec specifies the cron spec for evicting expired job statuses.
// Defaults to every minute
func WithSweepSpec(spec string) Option {
	return func(o *Orchestrator) {
		o.sweepSpec = spec
	}
}

// WithJobTimeout specifies the upper bound on a single job's run time.
// Defaults to 5m
func WithJobTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.jobTimeout = timeout
	}
}
