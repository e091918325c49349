package articlecache

import (
	"context"

	"github.com/goliatone/go-article-cache/articles"
	"github.com/goliatone/go-article-cache/cache"
	"go.uber.org/zap"
)

var _ articles.Store = (*CachedRepository)(nil)

// CachedRepository decorates an articles.Store with read-through caching for
// GetByID and List and post-write invalidation for Create, Update and Delete.
type CachedRepository struct {
	base        articles.Store
	client      *cache.Client
	invalidator *Invalidator
	opts        Options
	logger      *zap.Logger
}

// New wraps base. Zero TTLs in opts fall back to DefaultOptions.
func New(base articles.Store, client *cache.Client, opts Options, logger *zap.Logger) *CachedRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = defaults.ItemTTL
	}
	if opts.ListTTL <= 0 {
		opts.ListTTL = defaults.ListTTL
	}
	return &CachedRepository{
		base:        base,
		client:      client,
		invalidator: NewInvalidator(client, logger, opts),
		opts:        opts,
		logger:      logger,
	}
}

// Invalidator returns the invalidator used after writes.
func (r *CachedRepository) Invalidator() *Invalidator {
	return r.invalidator
}

// Options returns the effective options.
func (r *CachedRepository) Options() Options {
	return r.opts
}

// GetByID serves article:<id> from the cache, loading it with its author on a
// miss. ErrNotFound is returned as-is and never cached.
func (r *CachedRepository) GetByID(ctx context.Context, id int64) (articles.Article, error) {
	article, err := cache.GetOrFetch(ctx, r.client, FamilyItem, ItemKey(id), r.opts.ItemTTL,
		func(ctx context.Context) (articles.Article, error) {
			a, err := r.base.GetByID(ctx, id)
			return a.Normalize(), err
		})
	if err != nil {
		return articles.Article{}, err
	}
	return article.Normalize(), nil
}

// GetByIDDirect reads from the store, bypassing the cache. Writers use it so
// ownership checks never run against a stale entry.
func (r *CachedRepository) GetByIDDirect(ctx context.Context, id int64) (articles.Article, error) {
	a, err := r.base.GetByID(ctx, id)
	if err != nil {
		return articles.Article{}, err
	}
	return a.Normalize(), nil
}

// ListPage serves one page envelope from the cache, running the filtered query
// on a miss. The envelope is cached whole under the list key for q.
func (r *CachedRepository) ListPage(ctx context.Context, q articles.ListQuery) (articles.Page, error) {
	key := ListKey(q.Page, q.Limit, q.Filters)
	page, err := cache.GetOrFetch(ctx, r.client, FamilyList, key, r.opts.ListTTL,
		func(ctx context.Context) (articles.Page, error) {
			items, total, err := r.base.List(ctx, q)
			if err != nil {
				return articles.Page{}, err
			}
			return articles.Page{
				Items: items,
				Total: total,
				Page:  q.Page,
				Limit: q.Limit,
			}.Normalize(), nil
		})
	if err != nil {
		return articles.Page{}, err
	}
	return page.Normalize(), nil
}

// List satisfies articles.Store on top of ListPage.
func (r *CachedRepository) List(ctx context.Context, q articles.ListQuery) ([]articles.Article, int, error) {
	page, err := r.ListPage(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

// Create writes through to the store, then invalidates.
func (r *CachedRepository) Create(ctx context.Context, article articles.Article) (articles.Article, error) {
	created, err := r.base.Create(ctx, article)
	if err != nil {
		return articles.Article{}, err
	}
	r.invalidator.Invalidate(ctx, created)
	return created.Normalize(), nil
}

// Update writes through to the store, then invalidates.
func (r *CachedRepository) Update(ctx context.Context, article articles.Article) (articles.Article, error) {
	updated, err := r.base.Update(ctx, article)
	if err != nil {
		return articles.Article{}, err
	}
	r.invalidator.Invalidate(ctx, updated)
	return updated.Normalize(), nil
}

// Delete removes the row, then invalidates.
func (r *CachedRepository) Delete(ctx context.Context, article articles.Article) error {
	if err := r.base.Delete(ctx, article); err != nil {
		return err
	}
	r.invalidator.Invalidate(ctx, article)
	return nil
}

// GetUser is not cached.
func (r *CachedRepository) GetUser(ctx context.Context, id int64) (articles.User, error) {
	return r.base.GetUser(ctx, id)
}

// CreateUser is not cached.
func (r *CachedRepository) CreateUser(ctx context.Context, user articles.User) (articles.User, error) {
	return r.base.CreateUser(ctx, user)
}
