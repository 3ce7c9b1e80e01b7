// Package config loads mapgraph settings from a TOML file.
//
// The file is looked up in this order, first hit wins:
//
//  1. the path in $MAPGRAPH_CONFIG
//  2. ./mapgraph.toml
//  3. ~/.config/mapgraph/config.toml
//
// Missing files are not an error; [Default] values apply. A handful of
// environment variables override individual settings after the file is
// read, see [Config.applyEnv].
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/preset"
	"github.com/matzehuels/mapgraph/pkg/store"
)

// EnvPath names the environment variable holding an explicit config path.
const EnvPath = "MAPGRAPH_CONFIG"

// FileName is the config file looked up in the working directory.
const FileName = "mapgraph.toml"

// Config is the complete set of settings.
type Config struct {
	LogLevel   string           `toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Presets    string           `toml:"presets"`
	Minter     string           `toml:"minter" validate:"omitempty,oneof=sequence uuid"`
	Store      StoreConfig      `toml:"store"`
	Actions    ActionsConfig    `toml:"actions"`
	Projection ProjectionConfig `toml:"projection"`
	History    HistoryConfig    `toml:"history"`
	Server     ServerConfig     `toml:"server"`

	path string
}

// StoreConfig selects the snapshot store used for sessions.
type StoreConfig struct {
	Backend string `toml:"backend" validate:"omitempty,oneof=file null redis mongo sqlite"`
	Dir     string `toml:"dir"`
	SQLite  string `toml:"sqlite"`
	Retry   bool   `toml:"retry"`
	TTL     string `toml:"ttl"`
	Redis   struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db" validate:"gte=0"`
	} `toml:"redis"`
	Mongo struct {
		URI        string `toml:"uri"`
		Database   string `toml:"database"`
		Collection string `toml:"collection"`
	} `toml:"mongo"`
}

// ActionsConfig holds defaults for action parameters.
type ActionsConfig struct {
	// MaxAngle is the circularize step in degrees.
	MaxAngle float64 `toml:"max_angle" validate:"gte=1,lte=180"`
}

// ProjectionConfig picks the projection handed to geometric actions.
type ProjectionConfig struct {
	Kind string  `toml:"kind" validate:"omitempty,oneof=identity mercator"`
	Zoom float64 `toml:"zoom" validate:"gte=0,lte=24"`
}

// HistoryConfig mirrors history.Options.
type HistoryConfig struct {
	Limit  int  `toml:"limit" validate:"gte=0"`
	Strict bool `toml:"strict"`
}

// ServerConfig configures `mapgraph serve`.
type ServerConfig struct {
	Addr            string   `toml:"addr" validate:"omitempty,hostname_port"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	WatchPresets    bool     `toml:"watch_presets"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{
		LogLevel: "info",
		Minter:   "sequence",
	}
	c.Store.Backend = store.BackendFile
	c.Store.TTL = "0s"
	c.Actions.MaxAngle = action.DefaultMaxAngle
	c.Projection.Kind = "mercator"
	c.Projection.Zoom = 17
	c.Server.Addr = "127.0.0.1:8080"
	c.Server.AllowedOrigins = []string{"http://localhost:*"}
	c.Server.ShutdownTimeout = "10s"
	return c
}

// Load reads the config at path, or searches the default locations when
// path is empty. Environment overrides are applied and the result is
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := Find()
		if err != nil {
			return nil, err
		}
		path = found
	}
	c := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open config")
		}
		defer f.Close()
		if c, err = Decode(f); err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "config %s", path)
		}
		c.path = path
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Decode reads TOML on top of the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown config key %q", undecoded[0].String())
	}
	return c, nil
}

// Find returns the first existing config file, or "" when there is none.
// An explicit $MAPGRAPH_CONFIG that does not exist is an error.
func Find() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", EnvPath)
		}
		return p, nil
	}
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "mapgraph", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "stat %s", p)
		}
	}
	return "", nil
}

// Path is the file the config was read from, empty for defaults.
func (c *Config) Path() string { return c.path }

// Validate checks field constraints and duration syntax.
func (c *Config) Validate() error {
	if err := errs.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := c.StoreTTL(); err != nil {
		return err
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		name string
		dst  *string
	}{
		{"MAPGRAPH_LOG_LEVEL", &c.LogLevel},
		{"MAPGRAPH_PRESETS", &c.Presets},
		{"MAPGRAPH_STORE", &c.Store.Backend},
		{"MAPGRAPH_STORE_DIR", &c.Store.Dir},
		{"MAPGRAPH_REDIS_ADDR", &c.Store.Redis.Addr},
		{"MAPGRAPH_MONGO_URI", &c.Store.Mongo.URI},
		{"MAPGRAPH_ADDR", &c.Server.Addr},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.name); ok && v != "" {
			*o.dst = v
		}
	}
}

// StoreTTL parses the session time-to-live. Zero keeps sessions forever.
func (c *Config) StoreTTL() (time.Duration, error) {
	return parseDuration("store.ttl", c.Store.TTL)
}

// ShutdownTimeout parses the server's graceful shutdown budget.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", key)
	}
	if d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s must not be negative", key)
	}
	return d, nil
}

// StoreOptions converts the store section for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		SQLite:  c.Store.SQLite,
		Retry:   c.Store.Retry,
		Redis: store.RedisOptions{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
		},
		Mongo: store.MongoOptions{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		},
	}
}

// NewProjection returns the configured projection.
func (c *Config) NewProjection() geo.Projection {
	if c.Projection.Kind == "identity" {
		return geo.Identity{}
	}
	return geo.NewMercator(c.Projection.Zoom)
}

// NewMinter returns the configured id minter.
func (c *Config) NewMinter() entity.Minter {
	if c.Minter == "uuid" {
		return entity.UUIDMinter{}
	}
	return entity.NewSequenceMinter()
}

// LoadPresets returns the preset catalog at c.Presets, or the built-in one.
func (c *Config) LoadPresets() (*preset.Catalog, error) {
	if c.Presets == "" {
		return preset.Default(), nil
	}
	return preset.LoadFile(c.Presets)
}

// Env assembles the action environment.
func (c *Config) Env(schemas action.SchemaSource) action.Env {
	return action.Env{
		Projection: c.NewProjection(),
		Minter:     c.NewMinter(),
		Schemas:    schemas,
	}
}

// Params fills configured defaults into p for the named action.
func (c *Config) Params(name string, p action.Params) action.Params {
	if name == "circularize" && p.MaxAngle == 0 {
		p.MaxAngle = c.Actions.MaxAngle
	}
	return p
}
