package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/pkg/history"
	"github.com/matzehuels/mapgraph/pkg/store"
)

// sessionCommand creates the session command group.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit a stored graph with undo and redo",
		Long: `A session is an edit history kept in the configured snapshot store
(file, sqlite, redis, mongo). Every command loads the session, changes it
and saves it back.`,
	}

	cmd.AddCommand(c.sessionSaveCommand())
	cmd.AddCommand(c.sessionApplyCommand())
	cmd.AddCommand(c.sessionMoveCommand("undo"))
	cmd.AddCommand(c.sessionMoveCommand("redo"))
	cmd.AddCommand(c.sessionLogCommand())
	cmd.AddCommand(c.sessionExportCommand())
	cmd.AddCommand(c.sessionClearCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	s, err := store.Open(ctx, c.cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (c *CLI) loadSession(ctx context.Context, s store.Store, name string) (*history.History, error) {
	var h *history.History
	err := spin(ctx, "Loading session", "", func(ctx context.Context) error {
		var err error
		h, err = store.LoadSession(ctx, s, name, c.historyOptions())
		return err
	})
	return h, err
}

func (c *CLI) saveSession(ctx context.Context, s store.Store, name string, h *history.History) error {
	ttl, err := c.cfg.StoreTTL()
	if err != nil {
		return err
	}
	return store.SaveSession(ctx, s, name, h, ttl)
}

// sessionSaveCommand creates the "session save" subcommand.
func (c *CLI) sessionSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <graph>",
		Short: "Start a session from a graph file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			g, err := readGraph(cmd, args[1])
			if err != nil {
				return err
			}
			h := history.New(g, c.historyOptions())
			return c.withStore(cmd.Context(), func(s store.Store) error {
				if err := c.saveSession(cmd.Context(), s, name, h); err != nil {
					return err
				}
				printSuccess("Saved session %s", StyleHighlight.Render(name))
				printCounts(g)
				printNextStep("Edit it", fmt.Sprintf("mapgraph session apply %s -a <action> -p '<json>'", name))
				return nil
			})
		},
	}
}

// sessionApplyCommand creates the "session apply" subcommand.
func (c *CLI) sessionApplyCommand() *cobra.Command {
	var af actionFlags

	cmd := &cobra.Command{
		Use:   "apply <name>",
		Short: "Apply actions to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			steps, err := af.steps()
			if err != nil {
				return err
			}
			env, _, err := c.env()
			if err != nil {
				return err
			}
			actionName, a, err := c.buildAction(steps, env)
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(s store.Store) error {
				h, err := c.loadSession(ctx, s, name)
				if err != nil {
					return err
				}
				res, err := h.Perform(ctx, actionName, a)
				if err != nil {
					return err
				}
				if err := c.saveSession(ctx, s, name, h); err != nil {
					return err
				}
				printSuccess("Applied %s (%d/%d)", actionName, res.Index, h.Len()-1)
				printChanges(res.Changes)
				return nil
			})
		},
	}

	af.register(cmd)
	return cmd
}

// sessionMoveCommand creates the "session undo" and "session redo"
// subcommands.
func (c *CLI) sessionMoveCommand(direction string) *cobra.Command {
	return &cobra.Command{
		Use:   direction + " <name>",
		Short: fmt.Sprintf("Move a session's cursor (%s)", direction),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			return c.withStore(ctx, func(s store.Store) error {
				h, err := c.loadSession(ctx, s, name)
				if err != nil {
					return err
				}
				move, verb := h.Undo, "Undid"
				if direction == "redo" {
					move, verb = h.Redo, "Redid"
				}
				res, err := move(ctx)
				if err != nil {
					return err
				}
				if err := c.saveSession(ctx, s, name, h); err != nil {
					return err
				}
				printSuccess("%s %s", verb, res.Name)
				printChanges(res.Changes)
				return nil
			})
		},
	}
}

// sessionLogCommand creates the "session log" subcommand.
func (c *CLI) sessionLogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "log <name>",
		Short: "List a session's snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				h, err := c.loadSession(ctx, s, args[0])
				if err != nil {
					return err
				}
				snaps, index := h.Snapshots()
				out := cmd.OutOrStdout()
				for i, snap := range snaps {
					marker := " "
					if i == index {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %3d  %-16s %6d  %s\n", marker, i, snap.Name, snap.Graph.Len(),
						snap.Time.Local().Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

// sessionExportCommand creates the "session export" subcommand.
func (c *CLI) sessionExportCommand() *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a session's current snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				h, err := c.loadSession(ctx, s, args[0])
				if err != nil {
					return err
				}
				return writeGraph(cmd, h.Graph(), out, format)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (.json, .yaml); default stdout")
	cmd.Flags().StringVar(&format, "format", "json", "stdout encoding: json or yaml")
	return cmd
}

// sessionClearCommand creates the "session clear" subcommand.
func (c *CLI) sessionClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <name>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				if err := store.DeleteSession(ctx, s, args[0]); err != nil {
					return err
				}
				printSuccess("Cleared session %s", args[0])
				return nil
			})
		},
	}
}
