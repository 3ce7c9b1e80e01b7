// Package store persists encoded snapshots and editing sessions.
//
// [Store] is a small key/value contract with optional expiry. Backends:
//
//   - [FileStore]: one file per key under a directory, for the CLI
//   - [NullStore]: stores nothing, for tests and --no-store runs
//   - [RedisStore]: Redis via go-redis, for servers sharing sessions
//   - [MongoStore]: a MongoDB collection with a TTL index
//   - [SQLiteStore]: a single-file SQLite database
//
// [Open] picks a backend from [Options]. Wrappers add behavior to any
// backend: [Scoped] prefixes keys, [WithRetry] retries transient failures,
// and [Instrument] reports hits and misses to the observability hooks.
//
// # Sessions
//
// [SaveSession] and [LoadSession] persist a whole edit history (every
// snapshot and the undo cursor) under a session name:
//
//	s, _ := store.NewFileStore(dir)
//	err := store.SaveSession(ctx, s, "survey", h, 0)
//	h, err = store.LoadSession(ctx, s, "survey", history.Options{})
package store

import (
	"context"
	"time"
)

// Store is a key/value store for encoded data. Get reports a miss with
// ok=false and a nil error. A zero ttl never expires.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
