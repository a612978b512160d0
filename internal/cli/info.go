package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FelixDamrau/cazdo/internal/git"
	"github.com/FelixDamrau/cazdo/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info [branch]",
	Short: "Show the work item linked to a branch",
	Long: `Prints a one-shot summary of the work item linked to the given branch
(default: the current branch). Branches without an embedded work item
number get a git status summary instead.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, repo, err := setup()
		if err != nil {
			return err
		}

		current, err := repo.CurrentBranch()
		if err != nil {
			return err
		}
		name := current
		if len(args) == 1 {
			name = args[0]
		}

		branch := git.BuildBranchInfos([]string{name}, current, cfg.Branches.Protected)[0]
		if branch.WorkItemID == 0 {
			fmt.Println(ui.BranchSummary(branch, repo.BranchStatus(name), time.Now()))
			return nil
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		wi, err := client.GetWorkItem(ctx, branch.WorkItemID)
		if err != nil {
			fmt.Println(ui.ErrorSummary(err.Error()))
			return err
		}
		fmt.Println(ui.WorkItemSummary(wi))
		return nil
	},
}
