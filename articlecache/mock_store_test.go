package articlecache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-article-cache/articles"
)

// mockStore is an in-memory articles.Store that records every call.
type mockStore struct {
	mu       sync.Mutex
	calls    []string
	articles map[int64]articles.Article
	users    map[int64]articles.User
	nextID   int64
	err      error
}

func newMockStore() *mockStore {
	return &mockStore{
		articles: make(map[int64]articles.Article),
		users:    make(map[int64]articles.User),
		nextID:   100,
	}
}

func (m *mockStore) seedUser(id int64, email string) articles.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := articles.User{ID: id, Email: email}
	m.users[id] = u
	return u
}

func (m *mockStore) seedArticle(a articles.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[a.ID] = a
}

func (m *mockStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockStore) recordCall(method string) {
	m.calls = append(m.calls, method)
}

func (m *mockStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockStore) countCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *mockStore) clearCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *mockStore) withAuthor(a articles.Article) articles.Article {
	if u, ok := m.users[a.AuthorID]; ok {
		a.Author = &u
	}
	return a
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (articles.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("GetByID")
	if m.err != nil {
		return articles.Article{}, articles.NewStoreError("get", m.err)
	}
	a, ok := m.articles[id]
	if !ok {
		return articles.Article{}, articles.ErrNotFound
	}
	return m.withAuthor(a), nil
}

func (m *mockStore) List(ctx context.Context, q articles.ListQuery) ([]articles.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("List")
	if m.err != nil {
		return nil, 0, articles.NewStoreError("list", m.err)
	}

	var matched []articles.Article
	for _, a := range m.articles {
		f := q.Filters
		if f.AuthorID != nil && a.AuthorID != *f.AuthorID {
			continue
		}
		if f.PublishedAfter != nil && a.PublishedAt.Before(*f.PublishedAfter) {
			continue
		}
		if f.PublishedBefore != nil && a.PublishedAt.After(*f.PublishedBefore) {
			continue
		}
		matched = append(matched, m.withAuthor(a))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PublishedAt.Equal(matched[j].PublishedAt) {
			return matched[i].PublishedAt.After(matched[j].PublishedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *mockStore) Create(ctx context.Context, a articles.Article) (articles.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Create")
	if m.err != nil {
		return articles.Article{}, articles.NewStoreError("create", m.err)
	}
	m.nextID++
	a.ID = m.nextID
	a.Author = nil
	m.articles[a.ID] = a
	return m.withAuthor(a), nil
}

func (m *mockStore) Update(ctx context.Context, a articles.Article) (articles.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Update")
	if m.err != nil {
		return articles.Article{}, articles.NewStoreError("update", m.err)
	}
	if _, ok := m.articles[a.ID]; !ok {
		return articles.Article{}, articles.ErrNotFound
	}
	a.Author = nil
	m.articles[a.ID] = a
	return m.withAuthor(a), nil
}

func (m *mockStore) Delete(ctx context.Context, a articles.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Delete")
	if m.err != nil {
		return articles.NewStoreError("delete", m.err)
	}
	if _, ok := m.articles[a.ID]; !ok {
		return articles.ErrNotFound
	}
	delete(m.articles, a.ID)
	return nil
}

func (m *mockStore) GetUser(ctx context.Context, id int64) (articles.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("GetUser")
	if m.err != nil {
		return articles.User{}, articles.NewStoreError("get user", m.err)
	}
	u, ok := m.users[id]
	if !ok {
		return articles.User{}, articles.ErrNotFound
	}
	return u, nil
}

func (m *mockStore) CreateUser(ctx context.Context, u articles.User) (articles.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("CreateUser")
	if m.err != nil {
		return articles.User{}, articles.NewStoreError("create user", m.err)
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return u, nil
}

func date(day int) time.Time {
	return time.Date(2024, time.March, day, 9, 30, 0, 0, time.UTC)
}
