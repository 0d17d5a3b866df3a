package store

import (
	"context"
	"time"
)

// Observer receives store operation timings.
type Observer interface {
	ObserveStoreOperation(operation, key string, duration time.Duration)
}

type instrumented struct {
	inner Store
	obs   Observer
}

// Instrument wraps a Store so every operation is timed through the
// observer. A nil observer returns the store unchanged.
func Instrument(s Store, obs Observer) Store {
	if obs == nil {
		return s
	}
	return &instrumented{inner: s, obs: obs}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Get(ctx, key)
	s.obs.ObserveStoreOperation("get", key, time.Since(start))
	return data, err
}

func (s *instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, value)
	s.obs.ObserveStoreOperation("set", key, time.Since(start))
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.obs.ObserveStoreOperation("delete", key, time.Since(start))
	return err
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}
