package testsupport

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrStoreDown is returned by a FakeStore with failures enabled.
var ErrStoreDown = errors.New("fake store unavailable")

// FakeStore is an in-memory cache.Store that records every call. TTLs are
// recorded but never enforced.
type FakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	calls   []string
	failAll bool
	failOps map[string]bool
	failKey map[string]bool
}

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		data:    make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
		failOps: make(map[string]bool),
		failKey: make(map[string]bool),
	}
}

// FailAll makes every operation return ErrStoreDown.
func (f *FakeStore) FailAll(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = fail
}

// FailOp makes one operation ("get", "set", "delete", "keys", "exists") fail.
func (f *FakeStore) FailOp(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOps[op] = true
}

// FailKey makes Delete fail for key.
func (f *FakeStore) FailKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKey[key] = true
}

// Put seeds a value without recording a call.
func (f *FakeStore) Put(key string, value []byte, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
	f.ttls[key] = ttl
}

// Value returns the stored bytes for key.
func (f *FakeStore) Value(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// TTL returns the TTL passed with the last Set of key.
func (f *FakeStore) TTL(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ttl, ok := f.ttls[key]
	return ttl, ok
}

// StoredKeys returns every key currently held, sorted.
func (f *FakeStore) StoredKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Calls returns the recorded calls as "op:arg".
func (f *FakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallsWithPrefix returns the recorded calls starting with prefix.
func (f *FakeStore) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (f *FakeStore) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeStore) record(op, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op+":"+arg)
	if f.failAll || f.failOps[op] {
		return ErrStoreDown
	}
	return nil
}

func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := f.record("get", key); err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (f *FakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := f.record("set", key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
	f.ttls[key] = ttl
	return nil
}

func (f *FakeStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	var deleted int64
	for _, key := range keys {
		if err := f.record("delete", key); err != nil {
			return deleted, err
		}
		f.mu.Lock()
		if f.failKey[key] {
			f.mu.Unlock()
			return deleted, ErrStoreDown
		}
		if _, ok := f.data[key]; ok {
			deleted++
		}
		delete(f.data, key)
		delete(f.ttls, key)
		f.mu.Unlock()
	}
	return deleted, nil
}

func (f *FakeStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := f.record("keys", pattern); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for key := range f.data {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *FakeStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := f.record("exists", key); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}
