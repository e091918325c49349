package cacheinfra

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerStore short-circuits calls to a failing backend. While open every
// call fails immediately with gobreaker.ErrOpenState, which the cache layer
// treats like any other backend error.
type BreakerStore struct {
	next Backend
	cb   *gobreaker.CircuitBreaker
}

type getResult struct {
	value []byte
	found bool
}

// NewBreakerStore wraps next with a circuit breaker named name.
func NewBreakerStore(name string, next Backend, cfg BreakerConfig, logger *zap.Logger) *BreakerStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

// State reports the current breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		value, found, err := s.next.Get(ctx, key)
		return getResult{value: value, found: found}, err
	})
	if err != nil {
		return nil, false, err
	}
	r := res.(getResult)
	return r.value, r.found, nil
}

func (s *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Set(ctx, key, value, ttl)
	})
	return err
}

func (s *BreakerStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Delete(ctx, keys...)
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

func (s *BreakerStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Keys(ctx, pattern)
	})
	if err != nil {
		return nil, err
	}
	return res.([]string), nil
}

func (s *BreakerStore) Exists(ctx context.Context, key string) (bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Exists(ctx, key)
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}
