// Package articlestore is the relational articles.Store, built on bun. It
// runs against sqlite and postgres through the matching bun dialect.
package articlestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-article-cache/articles"
	"github.com/uptrace/bun"
)

var _ articles.Store = (*Store)(nil)

// Store implements articles.Store over a bun database or transaction.
type Store struct {
	db bun.IDB
}

// New returns a Store using db.
func New(db bun.IDB) *Store {
	return &Store{db: db}
}

// CreateSchema creates the users and articles tables if they do not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*userModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return articles.NewStoreError("create schema", err)
	}

	if _, err := db.NewCreateTable().
		Model((*articleModel)(nil)).
		IfNotExists().
		ForeignKey(`("author_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return articles.NewStoreError("create schema", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*articleModel)(nil)).
		Index("articles_published_at_id_idx").
		Column("published_at", "id").
		IfNotExists().
		Exec(ctx); err != nil {
		return articles.NewStoreError("create schema", err)
	}
	return nil
}

// GetByID loads one article with its author.
func (s *Store) GetByID(ctx context.Context, id int64) (articles.Article, error) {
	var m articleModel
	err := s.db.NewSelect().
		Model(&m).
		Relation("Author").
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return articles.Article{}, mapError("get", err)
	}
	return m.toDomain(), nil
}

// List runs the filtered page query, newest first with id as tie breaker, and
// returns the page together with the total number of matching rows.
func (s *Store) List(ctx context.Context, q articles.ListQuery) ([]articles.Article, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	var rows []articleModel
	query := s.db.NewSelect().
		Model(&rows).
		Relation("Author")

	f := q.Filters.Normalize()
	if f.AuthorID != nil {
		query = query.Where("a.author_id = ?", *f.AuthorID)
	}
	if f.PublishedAfter != nil {
		query = query.Where("a.published_at >= ?", *f.PublishedAfter)
	}
	if f.PublishedBefore != nil {
		query = query.Where("a.published_at <= ?", *f.PublishedBefore)
	}

	total, err := query.
		OrderExpr("a.published_at DESC").
		OrderExpr("a.id DESC").
		Limit(q.Limit).
		Offset(q.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, mapError("list", err)
	}

	items := make([]articles.Article, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, total, nil
}

// Create inserts article and returns it reloaded with its author.
func (s *Store) Create(ctx context.Context, article articles.Article) (articles.Article, error) {
	m := fromArticle(article)
	m.ID = 0
	if _, err := s.db.NewInsert().
		Model(&m).
		Returning("id").
		Exec(ctx); err != nil {
		return articles.Article{}, mapError("create", err)
	}
	return s.GetByID(ctx, m.ID)
}

// Update writes the mutable columns of article. A missing row is ErrNotFound.
func (s *Store) Update(ctx context.Context, article articles.Article) (articles.Article, error) {
	m := fromArticle(article)
	res, err := s.db.NewUpdate().
		Model(&m).
		Column("title", "description", "published_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return articles.Article{}, mapError("update", err)
	}
	if err := requireAffected("update", res); err != nil {
		return articles.Article{}, err
	}
	return s.GetByID(ctx, m.ID)
}

// Delete removes article by primary key. A missing row is ErrNotFound.
func (s *Store) Delete(ctx context.Context, article articles.Article) error {
	res, err := s.db.NewDelete().
		Model(&articleModel{ID: article.ID}).
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapError("delete", err)
	}
	return requireAffected("delete", res)
}

// GetUser loads one user.
func (s *Store) GetUser(ctx context.Context, id int64) (articles.User, error) {
	var m userModel
	err := s.db.NewSelect().
		Model(&m).
		Where("u.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return articles.User{}, mapError("get user", err)
	}
	return m.toDomain(), nil
}

// CreateUser inserts user and returns it with its assigned id.
func (s *Store) CreateUser(ctx context.Context, user articles.User) (articles.User, error) {
	m := fromUser(user)
	m.ID = 0
	if _, err := s.db.NewInsert().
		Model(&m).
		Returning("id").
		Exec(ctx); err != nil {
		return articles.User{}, mapError("create user", err)
	}
	return m.toDomain(), nil
}

func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return articles.ErrNotFound
	}
	return articles.NewStoreError(op, err)
}

func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return articles.NewStoreError(op, err)
	}
	if n == 0 {
		return articles.ErrNotFound
	}
	return nil
}
