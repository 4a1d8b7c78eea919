package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"ghbot/pkg/ui"
)

var (
	topN           int
	topWorkers     int
	topConcurrency string
)

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank the accounts you follow by their follower counts",
	Long: `Look up the follower count of every account you follow and print the
top N. Lookups run on a small worker pool unless --concurrency sequential
is given. Accounts whose lookup fails are left out of the ranking.`,
	Example: `  ghbot top
  ghbot top -n 25
  ghbot top --concurrency sequential`,
	Args: cobra.NoArgs,
	Run:  runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntVarP(&topN, "limit", "n", 0, "number of accounts to show (default from config, 10)")
	topCmd.Flags().IntVar(&topWorkers, "workers", 0, "lookup workers in pooled mode (default from config, 3)")
	topCmd.Flags().StringVar(&topConcurrency, "concurrency", "", "sequential or pooled (default from config, pooled)")
}

func runTop(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if topWorkers > 0 {
		flags["workers"] = topWorkers
	}
	if topConcurrency != "" {
		flags["concurrency"] = topConcurrency
	}

	s := newSession(flags, nil)
	n := topN
	if n <= 0 {
		n = s.cfg.Engine.TopN
	}

	ctx, stop := signalContext()
	defer stop()

	report, err := s.bot.TopFollowed(ctx, n)
	if err != nil {
		s.fail("Ranking failed", err)
	}

	ui.PrintHighlight(fmt.Sprintf("Top %d of %d accounts you follow", len(report.Top), report.Following))
	if err := ui.RenderTopTable(os.Stdout, report.Top); err != nil {
		ui.PrintError("Failed to render table", err.Error())
		os.Exit(1)
	}
	if report.Enriched < report.Following {
		ui.PrintWarning("Lookups failed", strconv.Itoa(report.Following-report.Enriched)+" accounts left out")
	}
	ui.PrintInfo("Total followers", strconv.Itoa(report.TotalFollowers))
	s.done("Ranking complete", fmt.Sprintf("%d accounts ranked", report.Enriched))
}
