package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/pkg/render/dot"
)

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		out        string
		detailed   bool
		geographic bool
	)

	cmd := &cobra.Command{
		Use:   "dot <graph>",
		Short: "Write a Graphviz view of a graph",
		Long: `Dot converts a graph to Graphviz DOT. Points become nodes, consecutive
line points become edges and relation memberships become dashed edges.

The output extension picks the format: .dot (default), .svg or .png.
With --geo, nodes are pinned at their projected coordinates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			src := dot.ToDOT(g, dot.Options{Detailed: detailed, Geographic: geographic})

			if out == "" || out == stdio {
				_, err := fmt.Fprint(cmd.OutOrStdout(), src)
				return err
			}

			var data []byte
			switch strings.ToLower(filepath.Ext(out)) {
			case ".svg", ".png":
				err = spin(cmd.Context(), "Rendering", "", func(context.Context) error {
					var rerr error
					if strings.EqualFold(filepath.Ext(out), ".svg") {
						data, rerr = dot.RenderSVG(src)
					} else {
						data, rerr = dot.RenderPNG(src)
					}
					return rerr
				})
				if err != nil {
					return err
				}
			default:
				data = []byte(src)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Rendered graph")
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (.dot, .svg, .png); default DOT on stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include tags in node and edge labels")
	cmd.Flags().BoolVar(&geographic, "geo", false, "pin nodes at their coordinates")

	return cmd
}
