// Package articlecache puts a cache-aside layer in front of an articles.Store.
//
// Reads are served from a cache.Store when possible:
//
//	article:<id>                                   single article, 300s
//	articles:list:page:<p>:limit:<l>:author:<a>:after:<t>[:before:<t>]
//	                                               one page envelope, 60s
//
// Every successful write deletes the item key and all list keys, found by
// pattern. Cache failures never fail a request: reads fall back to the store
// and writes still succeed, leaving at most a TTL of staleness.
//
// Basic usage:
//
//	client := cache.NewClient(store, logger, cache.NewMetrics("articles"))
//	repo := articlecache.New(base, client, articlecache.DefaultOptions(), logger)
//	svc := articlecache.NewService(repo, logger)
//
//	page, err := svc.List(ctx, 1, 10, articles.Filters{})
package articlecache
