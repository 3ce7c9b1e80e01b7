package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/pkg/action"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for mapgraph and print it to stdout.

  bash:        source <(mapgraph completion bash)
  zsh:         mapgraph completion zsh > "${fpath[1]}/_mapgraph"
  fish:        mapgraph completion fish > ~/.config/fish/completions/mapgraph.fish
  powershell:  mapgraph completion powershell | Out-String | Invoke-Expression

Action names complete for the --action flag of apply, check and session apply.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeActions offers registered action names for --action.
func completeActions(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return action.Names(), cobra.ShellCompDirectiveNoFileComp
}
