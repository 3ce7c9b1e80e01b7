package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mapgraph/pkg/observability"
)

// backends returns the stores every contract test runs against. Redis and
// Mongo join when MAPGRAPH_TEST_REDIS or MAPGRAPH_TEST_MONGO is set.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	file, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	mem, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	disk, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	out := map[string]Store{"file": file, "sqlite-memory": mem, "sqlite-file": disk}
	if addr := os.Getenv("MAPGRAPH_TEST_REDIS"); addr != "" {
		r, err := NewRedisStore(ctx, RedisOptions{Addr: addr})
		require.NoError(t, err)
		out["redis"] = Scoped(r, "test:"+t.Name()+":")
	}
	if uri := os.Getenv("MAPGRAPH_TEST_MONGO"); uri != "" {
		m, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "mapgraph_test"})
		require.NoError(t, err)
		out["mongo"] = Scoped(m, t.Name()+":")
	}
	t.Cleanup(func() {
		for _, s := range out {
			_ = s.Close()
		}
	})
	return out
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok, "Get(missing) should miss")

			require.NoError(t, s.Set(ctx, "k", []byte("v1"), 0))
			data, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte("v1"), data)

			require.NoError(t, s.Set(ctx, "k", []byte("v2"), time.Hour))
			data, _, _ = s.Get(ctx, "k")
			assert.Equal(t, []byte("v2"), data, "Set should overwrite")

			require.NoError(t, s.Delete(ctx, "k"))
			_, ok, _ = s.Get(ctx, "k")
			assert.False(t, ok, "Get after Delete should miss")
			assert.NoError(t, s.Delete(ctx, "k"), "deleting a missing key is not an error")
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		if name == "redis" || name == "mongo" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "short", []byte("x"), time.Millisecond))
			time.Sleep(5 * time.Millisecond)
			_, ok, err := s.Get(ctx, "short")
			require.NoError(t, err)
			assert.False(t, ok, "expired entry should miss")
		})
	}
}

func TestFileStore_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, os.WriteFile(s.path("k"), []byte("{not json"), 0o600))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	_, statErr := os.Stat(s.path("k"))
	assert.True(t, os.IsNotExist(statErr), "corrupt entry should be removed")
}

func TestSQLiteStore_Purge(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Millisecond))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), 0))
	time.Sleep(5 * time.Millisecond)

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, ok, _ := s.Get(ctx, "b")
	assert.True(t, ok)
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	data, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	a, b := Scoped(inner, "a:"), Scoped(inner, "b:")

	require.NoError(t, a.Set(ctx, "k", []byte("from a"), 0))
	_, ok, _ := b.Get(ctx, "k")
	assert.False(t, ok, "scopes must not see each other")
	data, ok, _ := inner.Get(ctx, "a:k")
	assert.True(t, ok)
	assert.Equal(t, "from a", string(data))
}

func TestHashAndKey(t *testing.T) {
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
	assert.NotEqual(t, Hash([]byte("hello")), Hash([]byte("world")))
	assert.Len(t, Hash([]byte("hello")), 64)

	k := Key("snapshot", "survey", 3)
	assert.Regexp(t, `^snapshot:[0-9a-f]{64}$`, k)
	assert.NotEqual(t, k, Key("snapshot", "survey", 4))
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("flaky"))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls, "non-retryable errors return at once")

	assert.Nil(t, Retryable(nil))
	assert.True(t, IsRetryable(Retryable(permanent)))
}

type flakyStore struct {
	NullStore
	fails int
}

func (f *flakyStore) Set(context.Context, string, []byte, time.Duration) error {
	if f.fails > 0 {
		f.fails--
		return Retryable(errors.New("connection reset"))
	}
	return nil
}

func TestWithRetry(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	inner := &flakyStore{fails: 2}
	assert.NoError(t, WithRetry(inner).Set(context.Background(), "k", nil, 0))
	assert.Zero(t, inner.fails)
}

type recordingHooks struct {
	observability.NoopStoreHooks
	mu                sync.Mutex
	hits, misses, set int
}

func (r *recordingHooks) OnStoreHit(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *recordingHooks) OnStoreMiss(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

func (r *recordingHooks) OnStoreSet(context.Context, string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set++
}

func TestInstrument(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()
	ctx := context.Background()

	inner, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := Instrument(inner, "file")
	_, _, _ = s.Get(ctx, "k")
	_ = s.Set(ctx, "k", []byte("v"), 0)
	_, _, _ = s.Get(ctx, "k")

	assert.Equal(t, 1, hooks.hits)
	assert.Equal(t, 1, hooks.misses)
	assert.Equal(t, 1, hooks.set)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"", BackendFile, BackendNull, BackendSQLite} {
		s, err := Open(ctx, Options{Backend: backend, Dir: dir})
		require.NoError(t, err, "Open(%q)", backend)
		require.NoError(t, s.Close())
	}
	_, err := os.Stat(filepath.Join(dir, "mapgraph.db"))
	assert.NoError(t, err, "sqlite backend should default into Dir")

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.Error(t, err)
}
