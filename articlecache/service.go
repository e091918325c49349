package articlecache

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-article-cache/articles"
	"go.uber.org/zap"
)

// Service is the article use-case layer: reads go through the cache, writes
// check ownership against the store and then invalidate.
type Service struct {
	repo   *CachedRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds a Service over a cached repository.
func NewService(repo *CachedRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns one article.
func (s *Service) Get(ctx context.Context, id int64) (articles.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logStoreError("get", err, zap.Int64("article_id", id))
		return articles.Article{}, err
	}
	return article, nil
}

// List returns one page. Zero page and limit default to 1 and 10.
func (s *Service) List(ctx context.Context, page, limit int, filters articles.Filters) (articles.Page, error) {
	q, err := articles.NewListQuery(page, limit, filters)
	if err != nil {
		return articles.Page{}, err
	}
	result, err := s.repo.ListPage(ctx, q)
	if err != nil {
		s.logStoreError("list", err, zap.Int("page", q.Page), zap.Int("limit", q.Limit))
		return articles.Page{}, err
	}
	return result, nil
}

// Create stores a new article authored by userID. An unset PublishedAt
// defaults to now.
func (s *Service) Create(ctx context.Context, in articles.CreateInput, userID int64) (articles.Article, error) {
	if err := in.Validate(); err != nil {
		return articles.Article{}, err
	}

	author, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		s.logStoreError("create", err, zap.Int64("user_id", userID))
		return articles.Article{}, err
	}

	publishedAt := s.now()
	if in.PublishedAt != nil {
		publishedAt = *in.PublishedAt
	}

	created, err := s.repo.Create(ctx, articles.Article{
		Title:       in.Title,
		Description: in.Description,
		PublishedAt: articles.NormalizeTime(publishedAt),
		AuthorID:    author.ID,
		Author:      &author,
	})
	if err != nil {
		s.logStoreError("create", err, zap.Int64("user_id", userID))
		return articles.Article{}, err
	}
	return created, nil
}

// Update applies in to article id. Only the author may update it.
func (s *Service) Update(ctx context.Context, id int64, in articles.UpdateInput, userID int64) (articles.Article, error) {
	if err := in.Validate(); err != nil {
		return articles.Article{}, err
	}

	current, err := s.owned(ctx, "update", id, userID)
	if err != nil {
		return articles.Article{}, err
	}

	updated, err := s.repo.Update(ctx, in.Apply(current))
	if err != nil {
		s.logStoreError("update", err, zap.Int64("article_id", id))
		return articles.Article{}, err
	}
	return updated, nil
}

// Remove deletes article id. Only the author may remove it.
func (s *Service) Remove(ctx context.Context, id int64, userID int64) error {
	current, err := s.owned(ctx, "remove", id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, current); err != nil {
		s.logStoreError("remove", err, zap.Int64("article_id", id))
		return err
	}
	return nil
}

func (s *Service) owned(ctx context.Context, op string, id, userID int64) (articles.Article, error) {
	current, err := s.repo.GetByIDDirect(ctx, id)
	if err != nil {
		s.logStoreError(op, err, zap.Int64("article_id", id))
		return articles.Article{}, err
	}
	if current.AuthorID != userID {
		return articles.Article{}, articles.ErrForbidden
	}
	return current, nil
}

func (s *Service) logStoreError(op string, err error, fields ...zap.Field) {
	var storeErr *articles.StoreError
	if !errors.As(err, &storeErr) {
		return
	}
	s.logger.Error("article store failed",
		append(fields, zap.String("op", op), zap.Error(err))...,
	)
}
