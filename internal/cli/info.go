package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/graph"
	"github.com/matzehuels/mapgraph/pkg/preset"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <graph>",
		Short: "Summarize a graph and check its integrity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			_, cat, err := c.env()
			if err != nil {
				return err
			}

			n := countEntities(g)
			printKeyValue("points", fmt.Sprint(n.points))
			printKeyValue("lines", fmt.Sprint(n.lines))
			printKeyValue("relations", fmt.Sprint(n.relations))
			printKeyValue("presets", presetSummary(g, cat))
			if err := g.Validate(); err != nil {
				printWarning("invalid: %v", err)
				return nil
			}
			printSuccess("valid")
			return nil
		},
	}
}

// presetSummary counts tagged entities per matching preset, in id order of
// their first match.
func presetSummary(g *graph.Graph, cat *preset.Catalog) string {
	counts := make(map[string]int)
	var order []string
	for _, e := range g.Entities() {
		if len(e.EntityTags()) == 0 {
			continue
		}
		geom, err := g.Geometry(e.EntityID())
		if err != nil {
			continue
		}
		p := cat.Match(e.EntityTags(), geom)
		if p == nil {
			continue
		}
		if counts[p.ID] == 0 {
			order = append(order, p.ID)
		}
		counts[p.ID]++
	}
	if len(order) == 0 {
		return "none matched"
	}
	parts := make([]string, len(order))
	for i, id := range order {
		parts[i] = fmt.Sprintf("%s ×%d", id, counts[id])
	}
	return strings.Join(parts, ", ")
}

// actionsCommand creates the actions command.
func (c *CLI) actionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the registered actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range action.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
