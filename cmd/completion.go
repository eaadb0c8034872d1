package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/agent"
	"github.com/samhoang/skilo/internal/output"
	"github.com/samhoang/skilo/internal/templates"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for skilo.

Bash:
  $ source <(skilo completion bash)
  # Load for every session (Linux):
  $ skilo completion bash > /etc/bash_completion.d/skilo

Zsh:
  $ skilo completion zsh > "${fpath[1]}/_skilo"
  # Start a new shell for this to take effect.

Fish:
  $ skilo completion fish > ~/.config/fish/completions/skilo.fish

PowerShell:
  PS> skilo completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(w, true)
		case "zsh":
			return rootCmd.GenZshCompletion(w)
		case "fish":
			return rootCmd.GenFishCompletion(w, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(w)
		}
	},
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// registerCompletions runs once every command's flags are defined
func registerCompletions() {
	agents := append(agent.Names(), agent.SelectAll)
	for _, c := range []*cobra.Command{addCmd, newCmd, listCmd, removeCmd} {
		_ = c.RegisterFlagCompletionFunc("agent", fixedCompletion(agents...))
	}

	var tpls, langs, formats []string
	for _, t := range templates.Templates {
		tpls = append(tpls, string(t))
	}
	for _, l := range templates.Langs {
		langs = append(langs, string(l))
	}
	for _, f := range output.Formats {
		formats = append(formats, string(f))
	}
	_ = newCmd.RegisterFlagCompletionFunc("template", fixedCompletion(tpls...))
	_ = newCmd.RegisterFlagCompletionFunc("lang", fixedCompletion(langs...))
	_ = rootCmd.RegisterFlagCompletionFunc("format", fixedCompletion(formats...))
}
