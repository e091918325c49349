package articlecache

import (
	"context"

	"github.com/goliatone/go-article-cache/articles"
	"github.com/goliatone/go-article-cache/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Invalidator removes every cache entry that may reference a mutated article.
//
// List entries are found by pattern rather than by enumerating filter
// combinations: totals and page boundaries shift on any write, so every list
// is treated as stale.
type Invalidator struct {
	client      *cache.Client
	logger      *zap.Logger
	legacyIndex bool
}

// NewInvalidator builds an Invalidator over client.
func NewInvalidator(client *cache.Client, logger *zap.Logger, opts Options) *Invalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{
		client:      client,
		logger:      logger,
		legacyIndex: opts.LegacyIndexCleanup,
	}
}

// Plan returns the keys and patterns to delete for a.
func (i *Invalidator) Plan(a articles.Article) cache.Invalidation {
	keys := []string{ItemKey(a.ID)}
	if i.legacyIndex {
		keys = append(keys, IndexKey(a.ID))
	}
	return cache.Invalidation{
		Keys: keys,
		Patterns: []string{
			ListPattern(),
			AuthorListPattern(a.AuthorID),
			UnscopedListPattern(),
		},
	}
}

// Invalidate deletes the planned entries. It never fails: cache errors are
// logged and counted by the client, and reported back in the summary.
func (i *Invalidator) Invalidate(ctx context.Context, a articles.Article) cache.DeleteReport {
	report := i.client.Invalidate(ctx, FamilyArticle, i.Plan(a))

	fields := []zap.Field{
		zap.String("invalidation_id", uuid.NewString()),
		zap.Int64("article_id", a.ID),
		zap.Int64("author_id", a.AuthorID),
		zap.Int("candidates", len(report.Candidates)),
		zap.Int64("deleted", report.Deleted),
		zap.Int("failures", report.Failures),
	}
	if report.Failures > 0 {
		i.logger.Warn("article invalidation incomplete", fields...)
	} else {
		i.logger.Debug("article invalidated", fields...)
	}
	return report
}
