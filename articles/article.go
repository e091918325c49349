package articles

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxTitleLength mirrors the width of the title column.
const MaxTitleLength = 255

// User is the author side of an article.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Article is the cached entity. Author is populated whenever the record was
// loaded with its relation.
type Article struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	AuthorID    int64     `json:"authorId"`
	Author      *User     `json:"author,omitempty"`
}

// Normalize returns a copy with PublishedAt in canonical form and a private
// copy of the author.
func (a Article) Normalize() Article {
	a.PublishedAt = NormalizeTime(a.PublishedAt)
	if a.Author != nil {
		author := *a.Author
		a.Author = &author
	}
	return a
}

// NormalizeTime converts t to UTC truncated to microseconds, the precision
// both supported databases keep.
func NormalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Microsecond)
}

// Page is the envelope returned by list reads and cached as a unit.
type Page struct {
	Items []Article `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// Normalize normalizes every item and guarantees a non-nil Items slice.
func (p Page) Normalize() Page {
	items := make([]Article, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.Normalize()
	}
	p.Items = items
	return p
}

// CreateInput carries the writable fields of a new article.
type CreateInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Validate checks the input before it reaches the store.
func (in CreateInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, MaxTitleLength)),
	)
	if err != nil {
		return invalidInput(err)
	}
	return nil
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Validate rejects an update that would blank the title.
func (in UpdateInput) Validate() error {
	if in.Title == nil {
		return nil
	}
	err := validation.Validate(*in.Title, validation.Required, validation.Length(1, MaxTitleLength))
	if err != nil {
		return invalidInput(err)
	}
	return nil
}

// Apply copies the set fields onto a.
func (in UpdateInput) Apply(a Article) Article {
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.PublishedAt != nil {
		a.PublishedAt = NormalizeTime(*in.PublishedAt)
	}
	return a
}
