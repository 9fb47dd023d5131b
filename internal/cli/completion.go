package cli

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// shellScripts maps a shell name to the cobra generator for its script.
var shellScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       (*cobra.Command).GenBashCompletion,
	"zsh":        (*cobra.Command).GenZshCompletion,
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": (*cobra.Command).GenPowerShellCompletionWithDesc,
}

func shells() []string {
	names := make([]string, 0, len(shellScripts))
	for name := range shellScripts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

The script completes subcommands, flags and the values of
"render --format". Load it for the current session, e.g.

  source <(kinship completion bash)

or write it where your shell picks up completions:

  kinship completion zsh > "${fpath[1]}/_kinship"
  kinship completion fish > ~/.config/fish/completions/kinship.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shellScripts[args[0]](cmd.Root(), stdout)
		},
	}
}

// completeFormats offers the render output formats for --format.
func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		formatSVG + "\tSVG drawing (default)",
		formatDOT + "\tGraphviz DOT source",
		formatPDF + "\tPDF document",
		formatPNG + "\tPNG image",
	}, cobra.ShellCompDirectiveNoFileComp
}
