package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/prefs"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "쉘 자동완성 스크립트 생성",
	Long: `지정한 쉘에 대한 자동완성 스크립트를 생성합니다.

Bash:
  $ source <(kbc completion bash)
  $ kbc completion bash > /etc/bash_completion.d/kbc

Zsh:
  $ source <(kbc completion zsh)
  $ kbc completion zsh > "${fpath[1]}/_kbc"

Fish:
  $ kbc completion fish > ~/.config/fish/completions/kbc.fish

PowerShell:
  PS> kbc completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

// 자동완성은 쉘을 오래 붙잡지 않도록 짧게 끊음
const completionTimeout = 3 * time.Second

func init() {
	rootCmd.AddCommand(completionCmd)

	registerCompletions()
}

// registerCompletions adds dynamic completions backed by the API
func registerCompletions() {
	// Project ID
	for _, c := range []*cobra.Command{projectShowCmd, kbListCmd, kbCreateCmd} {
		c.ValidArgsFunction = completeProjectIDs
	}

	// KB ID
	for _, c := range []*cobra.Command{
		kbShowCmd, docListCmd, docCreateCmd, docFromURLCmd,
		kbverListCmd, kbverShowCmd, kbverNextCmd, kbverCreateCmd, kbverUpdateCmd,
		kbverPublishCmd, kbverPrimaryCmd, kbverArchiveCmd, kbverDocsCmd,
	} {
		c.ValidArgsFunction = completeKBIDs
	}
}

// completionClient builds a quiet client for completion
func completionClient() (*api.Client, *app, error) {
	a, err := newApp("")
	if err != nil {
		return nil, nil, err
	}
	return a.client, a, nil
}

// completeProjectIDs provides project ID completion
func completeProjectIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	client, a, err := completionClient()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var completions []string
	for _, p := range projects {
		completions = append(completions, p.ID+"\t"+p.Name)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeKBIDs completes knowledge bases of the project last selected
// in the TUI, or of every project when nothing is selected.
func completeKBIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	client, a, err := completionClient()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	var projectIDs []string
	if store, err := a.openStore(); err == nil {
		if sel, err := prefs.NewService(store).LoadSelection(); err == nil && sel.ProjectID != "" {
			projectIDs = []string{sel.ProjectID}
		}
	}
	if len(projectIDs) == 0 {
		projects, err := client.ListProjects(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
	}

	var completions []string
	for _, id := range projectIDs {
		kbs, err := client.ListKnowledgeBases(ctx, id)
		if err != nil {
			continue
		}
		for _, kb := range kbs {
			completions = append(completions, kb.ID+"\t"+kb.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
