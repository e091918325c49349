package cacheinfra

import (
	"context"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viccon/sturdyc"
)

// memoryEntry carries its own deadline because sturdyc only knows one
// client-wide TTL.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process backend on top of a sturdyc client. It is meant
// for single-node deployments and tests; nothing is shared across processes.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

// NewMemoryStore validates cfg and builds the sturdyc client.
//
// Capacity, NumShards, MaxTTL and EvictionPercentage are passed to
// sturdyc.New; EvictionInterval is applied as an option when set.
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &MemoryStore{
		client: client,
		maxTTL: cfg.MaxTTL,
		now:    time.Now,
	}, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := s.live(key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

// Set stores value until ttl elapses. A non-positive ttl or one above MaxTTL
// is capped to MaxTTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	s.client.Set(key, memoryEntry{
		value:     stored,
		expiresAt: s.now().Add(ttl),
	})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	var deleted int64
	for _, key := range keys {
		if _, ok := s.live(key); ok {
			deleted++
		}
		s.client.Delete(key)
	}
	return deleted, nil
}

// Keys matches pattern with doublestar glob rules. Cache keys contain no path
// separators, so * spans the whole remaining key as in redis.
func (s *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var matched []string
	for _, key := range s.client.ScanKeys() {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, live := s.live(key); live {
			matched = append(matched, key)
		}
	}
	sort.Strings(matched)
	return matched, nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.live(key)
	return ok, nil
}

// Size reports the number of entries held by sturdyc, expired ones included.
func (s *MemoryStore) Size() int {
	return s.client.Size()
}

func (s *MemoryStore) live(key string) (memoryEntry, bool) {
	entry, ok := s.client.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		s.client.Delete(key)
		return memoryEntry{}, false
	}
	return entry, true
}
