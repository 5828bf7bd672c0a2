// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssrn-daily/internal/dedup"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check <date>",
	Short: "Merge and deduplicate a day's store, signaling the scheduler via exit code",
	Long: `Check runs the same-day merge followed by the rolling-window
deduplication for the given date (YYYY-MM-DD) and terminates with the
exit code the outer workflow scheduler consumes:

  0  new content present, continue the workflow
  1  no data or no new content, stop cleanly
  2  processing error

Status lines are written to stderr.`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().String("data-dir", "data", "directory for daily store files")
	checkCmd.Flags().Int("history-days", 7, "rolling dedup window in days")

	rootCmd.AddCommand(checkCmd)
}

// runCheck exits the process directly: the exit code is the command's
// entire contract.
func runCheck(cmd *cobra.Command, args []string) {
	date, err := time.Parse(types.StoreDateLayout, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid date %q (want YYYY-MM-DD)\n", args[0])
		os.Exit(dedup.ExitFailure)
	}

	cfg := types.StoreConfig{
		DataDir:     stringSetting(cmd, "data-dir", "data_dir"),
		HistoryDays: intSetting(cmd, "history-days", "history_days"),
	}

	os.Exit(dedup.Run(cfg, date, os.Stderr))
}
