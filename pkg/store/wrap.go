package store

import (
	"context"
	"time"

	"github.com/matzehuels/mapgraph/pkg/observability"
)

// WithRetry retries operations on inner that fail with a Retryable error.
func WithRetry(inner Store) Store {
	return &retryStore{inner: inner}
}

type retryStore struct{ inner Store }

func (s *retryStore) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	err = RetryWithBackoff(ctx, func() error {
		var e error
		data, ok, e = s.inner.Get(ctx, key)
		return e
	})
	return data, ok, err
}

func (s *retryStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error { return s.inner.Set(ctx, key, data, ttl) })
}

func (s *retryStore) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error { return s.inner.Delete(ctx, key) })
}

func (s *retryStore) Close() error { return s.inner.Close() }

// Instrument reports the operations on inner to the registered store hooks
// under the given backend name.
func Instrument(inner Store, backend string) Store {
	return &instrumentedStore{inner: inner, backend: backend}
}

type instrumentedStore struct {
	inner   Store
	backend string
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := s.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Store().OnStoreHit(ctx, s.backend)
		} else {
			observability.Store().OnStoreMiss(ctx, s.backend)
		}
	}
	return data, ok, err
}

func (s *instrumentedStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Store().OnStoreSet(ctx, s.backend, len(data))
	return nil
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *instrumentedStore) Close() error { return s.inner.Close() }
