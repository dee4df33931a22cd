package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically removes expired AI suggestions and expires lapsed
// subscriptions. Postgres has no TTL index, so this loop plays that role.
type Janitor struct {
	suggestions   SuggestionServiceInterface
	subscriptions SubscriptionServiceInterface
	interval      time.Duration
	log           *zap.Logger
}

func NewJanitor(
	suggestions SuggestionServiceInterface,
	subscriptions SubscriptionServiceInterface,
	interval time.Duration,
	log *zap.Logger,
) *Janitor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Janitor{
		suggestions:   suggestions,
		subscriptions: subscriptions,
		interval:      interval,
		log:           log,
	}
}

// RunOnce performs a single sweep. Errors are logged, not returned, so one
// failing step does not block the other.
func (j *Janitor) RunOnce(ctx context.Context) {
	if n, err := j.suggestions.PurgeExpired(ctx); err != nil {
		j.log.Warn("janitor: purge suggestions", zap.Error(err))
	} else if n > 0 {
		j.log.Info("janitor: purged expired suggestions", zap.Int64("rows", n))
	}

	if n, err := j.subscriptions.ExpireDue(ctx); err != nil {
		j.log.Warn("janitor: expire subscriptions", zap.Error(err))
	} else if n > 0 {
		j.log.Info("janitor: expired subscriptions", zap.Int64("rows", n))
	}
}

// Run sweeps immediately and then on every tick until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}
