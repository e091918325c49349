package articlestore

import (
	"time"

	"github.com/goliatone/go-article-cache/articles"
	"github.com/uptrace/bun"
)

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Email string `bun:"email,notnull,unique"`
}

type articleModel struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Title       string     `bun:"title,notnull"`
	Description string     `bun:"description,notnull"`
	PublishedAt time.Time  `bun:"published_at,notnull"`
	AuthorID    int64      `bun:"author_id,notnull"`
	Author      *userModel `bun:"rel:belongs-to,join:author_id=id"`
}

func fromUser(u articles.User) userModel {
	return userModel{ID: u.ID, Email: u.Email}
}

func (m userModel) toDomain() articles.User {
	return articles.User{ID: m.ID, Email: m.Email}
}

func fromArticle(a articles.Article) articleModel {
	return articleModel{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		PublishedAt: articles.NormalizeTime(a.PublishedAt),
		AuthorID:    a.AuthorID,
	}
}

func (m articleModel) toDomain() articles.Article {
	a := articles.Article{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		PublishedAt: articles.NormalizeTime(m.PublishedAt),
		AuthorID:    m.AuthorID,
	}
	if m.Author != nil {
		author := m.Author.toDomain()
		a.Author = &author
	}
	return a
}
