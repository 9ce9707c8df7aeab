// Package watcher runs one fetch-filter-dedup-notify cycle.
package watcher

import (
	"context"
	"fmt"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/feed"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/notify"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/store"
)

// Cycle holds the collaborators of one invocation. Nothing here survives the
// process; state lives behind the Store.
type Cycle struct {
	Feed      *feed.Client
	Store     store.Store
	Notifier  *notify.Notifier
	Monitored []string
	Log       logger.Logger
}

// Stats summarizes what a cycle did.
type Stats struct {
	Fetched int // records in the feed
	Hits    int // new matching records this cycle
}

// Run performs the single pass: load state, fetch the feed, collect records
// that match a monitored host and have not been seen, notify the sinks, and
// persist state when anything new was found. Notification failures are
// logged and swallowed; fetch and persistence failures propagate.
func (c *Cycle) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	seen := c.Store.Load(ctx)
	c.Log.Debug("state loaded", logger.Int("seen", seen.Len()))

	targets, err := c.Feed.Fetch(ctx)
	if err != nil {
		// One best-effort alert before the failure propagates.
		if res := c.Notifier.AlertFetchFailure(ctx, err); !res.Skipped && !res.Ok() {
			c.Log.Error("fetch-failure alert failed", logger.String("sink", res.Sink), logger.Error(res.Err))
		}
		return stats, err
	}
	stats.Fetched = len(targets)

	var hits []domain.Target
	for _, t := range targets {
		if t.Host == "" || !domain.HostMatches(c.Monitored, t.Host) {
			continue
		}
		key := t.RequestKey()
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		hits = append(hits, t)
	}
	stats.Hits = len(hits)

	if len(hits) == 0 {
		c.Log.Info("no new matches", logger.Int("fetched", stats.Fetched))
		// Still give the chat sink its empty-report chance; with
		// suppress-empty on (the default) it skips. State is untouched, so
		// nothing to persist.
		c.logResults(c.Notifier.NotifyHits(ctx, nil))
		return stats, nil
	}

	c.logResults(c.Notifier.NotifyHits(ctx, hits))

	if err := c.Store.Save(ctx, seen); err != nil {
		return stats, fmt.Errorf("failed to persist state: %w", err)
	}

	c.Log.Info("found new matches", logger.Int("hits", stats.Hits), logger.Int("fetched", stats.Fetched))
	return stats, nil
}

func (c *Cycle) logResults(results []notify.Result) {
	for _, res := range results {
		switch {
		case res.Skipped:
			c.Log.Debug("sink skipped", logger.String("sink", res.Sink))
		case res.Ok():
			c.Log.Info("notification sent", logger.String("sink", res.Sink))
		default:
			c.Log.Error("notification failed", logger.String("sink", res.Sink), logger.Error(res.Err))
		}
	}
}
