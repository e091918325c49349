package cache

import (
	"context"

	"go.uber.org/zap"
)

// Invalidation names the entries to remove: exact keys plus glob patterns
// resolved through Store.Keys.
type Invalidation struct {
	Keys     []string
	Patterns []string
}

// DeleteReport summarizes one invalidation call.
type DeleteReport struct {
	// Candidates is the deduplicated set of keys a delete was attempted for.
	Candidates []string
	// Deleted counts keys the store reported as removed.
	Deleted int64
	// Failures counts pattern lookups and deletes that errored.
	Failures int
}

// Invalidate resolves inv into a deduplicated key set and deletes each key on
// its own. A failing pattern lookup or delete is logged and counted and the
// remaining keys are still attempted.
func (c *Client) Invalidate(ctx context.Context, family string, inv Invalidation) DeleteReport {
	var report DeleteReport

	seen := make(map[string]struct{}, len(inv.Keys))
	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		report.Candidates = append(report.Candidates, key)
	}

	for _, key := range inv.Keys {
		add(key)
	}

	for _, pattern := range inv.Patterns {
		keys, err := c.store.Keys(ctx, pattern)
		if err != nil {
			report.Failures++
			c.metrics.failure(family, OpKeys)
			c.logger.Warn("cache key scan failed",
				zap.String("pattern", pattern),
				zap.Error(err),
			)
			continue
		}
		for _, key := range keys {
			add(key)
		}
	}

	for _, key := range report.Candidates {
		n, err := c.store.Delete(ctx, key)
		if err != nil {
			report.Failures++
			c.metrics.failure(family, OpDelete)
			c.logger.Warn("cache delete failed",
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		report.Deleted += n
	}

	c.metrics.invalidated(family, report.Deleted)
	return report
}
