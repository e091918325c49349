package cacheinfra

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

var errBackendDown = errors.New("backend down")

type flakyBackend struct {
	calls int32
	down  atomic.Bool
}

func (b *flakyBackend) fail() error {
	atomic.AddInt32(&b.calls, 1)
	if b.down.Load() {
		return errBackendDown
	}
	return nil
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := b.fail(); err != nil {
		return nil, false, err
	}
	return []byte("v"), true, nil
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.fail()
}

func (b *flakyBackend) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := b.fail(); err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

func (b *flakyBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := b.fail(); err != nil {
		return nil, err
	}
	return []string{"articles:list:page:1:limit:10:author:all:after:all"}, nil
}

func (b *flakyBackend) Exists(ctx context.Context, key string) (bool, error) {
	if err := b.fail(); err != nil {
		return false, err
	}
	return true, nil
}

func TestBreakerStore_PassesThroughWhenHealthy(t *testing.T) {
	backend := &flakyBackend{}
	store := NewBreakerStore("test", backend, *DefaultBreakerConfig(), nil)
	ctx := context.Background()

	value, found, err := store.Get(ctx, "article:1")
	if err != nil || !found || string(value) != "v" {
		t.Fatalf("unexpected get result %q %v %v", value, found, err)
	}
	if n, err := store.Delete(ctx, "a", "b"); err != nil || n != 2 {
		t.Errorf("unexpected delete result %d %v", n, err)
	}
	if keys, err := store.Keys(ctx, "articles:list:*"); err != nil || len(keys) != 1 {
		t.Errorf("unexpected keys result %v %v", keys, err)
	}
	if ok, err := store.Exists(ctx, "article:1"); err != nil || !ok {
		t.Errorf("unexpected exists result %v %v", ok, err)
	}
	if err := store.Set(ctx, "article:1", []byte("v"), time.Minute); err != nil {
		t.Errorf("unexpected set error %v", err)
	}
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	backend := &flakyBackend{}
	backend.down.Store(true)

	store := NewBreakerStore("test", backend, BreakerConfig{
		MaxRequests:         1,
		Timeout:             time.Minute,
		ConsecutiveFailures: 3,
	}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := store.Get(ctx, "article:1"); !errors.Is(err, errBackendDown) {
			t.Fatalf("call %d: expected backend error, got %v", i, err)
		}
	}

	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected breaker to be open, got %v", store.State())
	}

	before := atomic.LoadInt32(&backend.calls)
	if _, _, err := store.Get(ctx, "article:1"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if _, err := store.Keys(ctx, "articles:list:*"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if after := atomic.LoadInt32(&backend.calls); after != before {
		t.Errorf("expected open breaker to skip the backend, calls went %d -> %d", before, after)
	}
}
