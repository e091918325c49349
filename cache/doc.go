// Package cache provides the key-value store contract and the two protocols
// built on it: read-through and pattern invalidation.
//
// # Overview
//
// This package exports:
//
//   - Store: get, set-with-ttl, delete, keys-by-pattern and exists over opaque bytes
//   - Client: a Store plus a zap logger and prometheus Metrics
//   - GetOrFetch: the generic read-through helper
//   - Client.Invalidate: deduplicated, best-effort deletion of keys and patterns
//   - Config and NewStore: backend selection (sturdyc in memory, or redis)
//
// # Basic Usage
//
//	store, closeStore, err := cache.NewStore(ctx, cache.DefaultConfig(), logger)
//	if err != nil {
//		return err
//	}
//	defer closeStore()
//
//	client := cache.NewClient(store, logger, cache.NewMetrics("articles"))
//
//	article, err := cache.GetOrFetch(ctx, client, "item", "article:42", 5*time.Minute,
//		func(ctx context.Context) (articles.Article, error) {
//			return db.GetByID(ctx, 42)
//		})
//
// # Failure Containment
//
// The cache is an optimization, never a dependency for correctness. Inside
// GetOrFetch a store error on get is a miss, and a store error on set is
// logged and dropped. Only errors returned by the fetch function reach the
// caller, and those results are never cached. Invalidate never returns an
// error; failures are reported in the DeleteReport, logged and counted.
//
// # Serialization
//
// Values are cached as JSON. Callers that need identical values on the hit
// and miss paths normalize after GetOrFetch returns (see articles.Article.Normalize).
//
// # Concurrency
//
// No single-flight is provided: concurrent misses for one key each call the
// fetch function and each write the cache; the last write wins. A fill racing
// an invalidation may re-populate pre-write data, bounded by the entry TTL.
package cache
