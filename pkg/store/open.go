package store

import (
	"context"
	"path/filepath"

	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string // file store directory and default SQLite location
	SQLite  string // SQLite database path
	Redis   RedisOptions
	Mongo   MongoOptions
	// Retry wraps network backends with WithRetry.
	Retry bool
}

// Open creates the configured backend, instrumented with the store hooks.
// An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s       Store
		err     error
		network bool
	)
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		s, err = NewFileStore(opts.Dir)
	case BackendNull:
		s = NewNullStore()
	case BackendSQLite:
		path := opts.SQLite
		if path == "" {
			dir := opts.Dir
			if dir == "" {
				if dir, err = DefaultDir(); err != nil {
					return nil, err
				}
			}
			path = filepath.Join(dir, "mapgraph.db")
		}
		s, err = NewSQLiteStore(path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.Redis)
		network = true
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.Mongo)
		network = true
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q", backend)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "open %s store", backend)
	}
	if network && opts.Retry {
		s = WithRetry(s)
	}
	return Instrument(s, backend), nil
}
