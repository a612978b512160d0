// Package cli wires the command line surface: the interactive session as
// the root command plus the non-interactive subcommands.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/FelixDamrau/cazdo/internal/app"
	"github.com/FelixDamrau/cazdo/internal/azdo"
	"github.com/FelixDamrau/cazdo/internal/config"
	"github.com/FelixDamrau/cazdo/internal/debug"
	"github.com/FelixDamrau/cazdo/internal/git"
)

var debugLog string

var rootCmd = &cobra.Command{
	Use:   "cazdo",
	Short: "Interactive branch manager for Azure DevOps work items",
	Long: `cazdo lists your local git branches, links them to Azure DevOps work
items by the number embedded in the branch name, and lets you inspect,
check out and clean up branches without leaving the terminal.`,
	SilenceUsage: true,
	RunE:         runSession,
}

// Execute runs the command line interface.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug-log", "", "write debug logs to the given file")
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration and discovers the repository. Errors here are
// fatal before any terminal setup happens.
func setup() (*config.Config, *git.Repo, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	repo, err := git.Discover(".")
	if err != nil {
		return nil, nil, fmt.Errorf("cazdo must run inside a git repository: %w", err)
	}

	return cfg, repo, nil
}

func newClient(cfg *config.Config) (*azdo.Client, error) {
	if cfg.AzureDevOps.OrganizationURL == "" {
		return nil, fmt.Errorf("azure_devops.organization_url is not configured; run 'cazdo config init'")
	}
	pat := cfg.ResolvePAT()
	if pat == "" {
		return nil, fmt.Errorf("no personal access token configured; set azure_devops.pat or %s", config.PATEnvVar)
	}
	return azdo.NewClient(cfg.AzureDevOps.OrganizationURL, pat), nil
}

func runSession(cmd *cobra.Command, args []string) error {
	if debugLog != "" {
		if err := debug.Enable(debugLog); err != nil {
			return err
		}
		defer debug.Close()
	}

	cfg, repo, err := setup()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	current, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	names, err := repo.ListBranches()
	if err != nil {
		return err
	}
	branches := git.BuildBranchInfos(names, current, cfg.Branches.Protected)
	debug.Logf("session start: %d branches, current %s", len(branches), current)

	model := app.New(cfg, repo, client, branches)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		return err
	}

	// Recovery lines for every branch deleted during the session.
	if m, ok := final.(app.Model); ok {
		for _, d := range m.Deleted() {
			fmt.Println(d.Summary())
		}
	}
	return nil
}
