package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/history"
)

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		af       actionFlags
		out      string
		format   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "apply <graph>",
		Short: "Apply one action or a script of actions to a graph file",
		Long: `Apply reads a graph (JSON or YAML; "-" for JSON on stdin), runs the
selected action against it and writes the resulting snapshot.

A script runs all of its steps or none of them.`,
		Example: `  mapgraph apply city.json -a delete_node -p '{"point":"n1"}' -o out.json
  mapgraph apply city.yaml -s cleanup.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			g, err := readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			steps, err := af.steps()
			if err != nil {
				return err
			}
			env, _, err := c.env()
			if err != nil {
				return err
			}
			name, a, err := c.buildAction(steps, env)
			if err != nil {
				return err
			}

			h := history.New(g, c.historyOptions())
			prog := newProgress(logger)
			res, err := h.Perform(ctx, name, a)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Applied %s", name))
			printChanges(res.Changes)
			next := res.Graph

			if validate {
				if err := next.Validate(); err != nil {
					printWarning("result does not validate: %v", err)
				}
			}
			return writeGraph(cmd, next, out, format)
		},
	}

	af.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (.json, .yaml); default stdout")
	cmd.Flags().StringVar(&format, "format", "json", "stdout encoding: json or yaml")
	cmd.Flags().BoolVar(&validate, "validate", false, "warn when the result fails validation")

	return cmd
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var af actionFlags

	cmd := &cobra.Command{
		Use:   "check <graph>",
		Short: "Report whether an action is disabled on a graph",
		Long: `Check builds an action and asks whether it is available on the graph,
without applying it. Actions without an availability check are always
reported as enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			steps, err := af.steps()
			if err != nil {
				return err
			}
			env, _, err := c.env()
			if err != nil {
				return err
			}
			name, a, err := c.buildAction(steps, env)
			if err != nil {
				return err
			}

			reason := action.Enabled
			if d, ok := a.(action.Disabler); ok {
				reason = d.Disabled(g)
			}
			if reason != action.Enabled {
				printWarning("%s is disabled", name)
				printDetail("reason: %s", reason)
				fmt.Fprintln(cmd.OutOrStdout(), reason)
				return nil
			}
			printSuccess("%s is enabled", name)
			fmt.Fprintln(cmd.OutOrStdout(), "enabled")
			return nil
		},
	}

	af.register(cmd)
	return cmd
}
