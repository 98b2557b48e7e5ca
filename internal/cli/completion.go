package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for labyrinth.

Besides subcommands and flags, the scripts complete output formats for
--format (including comma-separated lists such as "png,svg"), hex colors
for --background, --wall and --accent, and *.json maze documents for
"labyrinth render".`,
		Example: `  # Bash, current session
  source <(labyrinth completion bash)

  # Bash, permanently (Linux)
  labyrinth completion bash > /etc/bash_completion.d/labyrinth

  # Zsh, with compinit enabled
  labyrinth completion zsh > "${fpath[1]}/_labyrinth"

  # Fish
  labyrinth completion fish > ~/.config/fish/completions/labyrinth.fish

  # PowerShell
  labyrinth completion powershell | Out-String | Invoke-Expression

  # Then try:  labyrinth generate --format png,<TAB>`,
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
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// paletteColors lists suggestions for the color flags, the defaults first.
// Any hex color is accepted.
func paletteColors() []string {
	bg, wall, accent := render.DefaultPalette().Hex()
	return []string{
		bg + "\tdefault background",
		wall + "\tdefault wall",
		accent + "\tdefault accent",
		"#ffffff",
		"#222222",
		"#00aa88",
		"#3366ff",
	}
}

// registerRenderCompletions wires value completion for the rendering flags
// shared by generate and render.
func registerRenderCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	for _, name := range []string{"background", "wall", "accent"} {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(paletteColors(), cobra.ShellCompDirectiveNoFileComp))
	}
}

// completeFormats completes the last element of a comma-separated format
// list, skipping formats already named earlier in the list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, partial = toComplete[:i+1], toComplete[i+1:]
	}
	chosen := make(map[string]bool)
	for _, f := range parseFormats(prefix) {
		chosen[f] = true
	}

	var out []string
	for _, f := range pipeline.SupportedFormats() {
		if chosen[f] || !strings.HasPrefix(f, strings.ToLower(partial)) {
			continue
		}
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeMazeDocuments offers JSON files for the render command's argument.
func completeMazeDocuments(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
