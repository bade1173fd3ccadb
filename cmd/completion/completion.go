// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var installHints = map[string][]string{
	"bash": {
		"salekit completion bash > /etc/bash_completion.d/salekit",
		"echo 'source <(salekit completion bash)' >> ~/.bashrc",
	},
	"zsh":        {"salekit completion zsh > ~/.zsh/completions/_salekit"},
	"fish":       {"salekit completion fish > ~/.config/fish/completions/salekit.fish"},
	"powershell": {"salekit completion powershell >> $PROFILE"},
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for salekit.

Install instructions:
  Bash:       salekit completion bash > /etc/bash_completion.d/salekit
              echo 'source <(salekit completion bash)' >> ~/.bashrc
  Zsh:        salekit completion zsh > ~/.zsh/completions/_salekit
  Fish:       salekit completion fish > ~/.config/fish/completions/salekit.fish
  PowerShell: salekit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			hints, ok := installHints[shell]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", shell)
			}

			out := cmd.OutOrStdout()
			writeHeader(out, shell, hints)

			switch shell {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
	return cmd
}

func writeHeader(w io.Writer, shell string, hints []string) {
	fmt.Fprintf(w, "# salekit %s completion\n", shell)
	for i, h := range hints {
		label := "Install:"
		if i > 0 {
			label = "Or:     "
		}
		fmt.Fprintf(w, "# %s %s\n", label, h)
	}
	fmt.Fprintln(w)
}
