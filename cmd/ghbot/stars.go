package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ghbot/pkg/models"
	"ghbot/pkg/ui"
)

var unstarYes bool

// unstarAllCmd represents the unstar-all command
var unstarAllCmd = &cobra.Command{
	Use:   "unstar-all",
	Short: "Remove every star from your account",
	Long: `Collect every repository you have starred, then unstar them one by one.

All pages are read before the first unstar, so nothing is skipped when the
list shrinks. This cannot be undone.`,
	Example: `  ghbot unstar-all
  ghbot unstar-all --yes`,
	Args: cobra.NoArgs,
	Run:  runUnstarAll,
}

func init() {
	rootCmd.AddCommand(unstarAllCmd)
	unstarAllCmd.Flags().BoolVarP(&unstarYes, "yes", "y", false, "do not ask for confirmation")
}

func runUnstarAll(cmd *cobra.Command, args []string) {
	if !unstarYes && !confirm("Remove ALL stars from your account? This cannot be undone!") {
		return
	}

	s := newSession(nil, nil)

	ctx, stop := signalContext()
	defer stop()

	summary, err := s.bot.UnstarAll(ctx)
	if summary.RunID != "" {
		s.display.Complete(summary)
	}
	if err != nil {
		s.fail("Unstar failed", err)
	}

	msg := fmt.Sprintf("Unstarred %d repositories", summary.Count(models.ActionUnstar))
	ui.PrintSuccess(msg)
	s.done("Unstar complete", msg)
}
