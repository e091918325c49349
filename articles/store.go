package articles

import "context"

// Store is the authoritative data store. Implementations return ErrNotFound
// for missing rows and wrap every other failure in *StoreError.
type Store interface {
	// GetByID loads one article with its author.
	GetByID(ctx context.Context, id int64) (Article, error)
	// List runs the filtered, paginated query ordered by PublishedAt
	// descending and returns the page plus the total matching count.
	List(ctx context.Context, q ListQuery) ([]Article, int, error)
	Create(ctx context.Context, article Article) (Article, error)
	Update(ctx context.Context, article Article) (Article, error)
	Delete(ctx context.Context, article Article) error

	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
}
