package store

import (
	"context"
	"time"
)

// Scoped prefixes every key, so that several tenants or projects can share
// one backend without colliding.
//
//	projectA := store.Scoped(shared, "project:a:")
func Scoped(inner Store, prefix string) Store {
	return &scopedStore{inner: inner, prefix: prefix}
}

type scopedStore struct {
	inner  Store
	prefix string
}

func (s *scopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *scopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scopedStore) Close() error { return s.inner.Close() }
