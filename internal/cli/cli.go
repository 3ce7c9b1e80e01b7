// Package cli implements the mapgraph command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/internal/config"
	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/buildinfo"
	"github.com/matzehuels/mapgraph/pkg/history"
	"github.com/matzehuels/mapgraph/pkg/preset"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	presetsPath string
	cfg         *config.Config
	// levelSet records an explicit SetLogLevel so the config's log_level
	// does not override --verbose.
	levelSet bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelSet = true
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mapgraph",
		Short:        "mapgraph edits topological map data",
		Long:         `mapgraph applies undoable edit actions to graphs of points, lines and relations, and inspects, renders and serves the results.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $MAPGRAPH_CONFIG, ./mapgraph.toml, ~/.config/mapgraph/config.toml)")
	root.PersistentFlags().StringVar(&c.presetsPath, "presets", "", "preset catalog TOML file (default: built-in presets)")

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.actionsCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.presetsPath != "" {
		cfg.Presets = c.presetsPath
	}
	if !c.levelSet {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	c.cfg = cfg
	if cfg.Path() != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path())
	}
	return nil
}

// env assembles the action environment from the config and preset catalog.
func (c *CLI) env() (action.Env, *preset.Catalog, error) {
	cat, err := c.cfg.LoadPresets()
	if err != nil {
		return action.Env{}, nil, err
	}
	return c.cfg.Env(cat), cat, nil
}

func (c *CLI) historyOptions() history.Options {
	return history.Options{
		Limit:  c.cfg.History.Limit,
		Strict: c.cfg.History.Strict,
		Logger: c.Logger,
	}
}
