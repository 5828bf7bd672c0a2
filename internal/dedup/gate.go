// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// Exit codes consumed by the outer workflow scheduler. The three-valued
// signal (continue / stop cleanly / stop with error) is the gate's only
// interface; no other state crosses the process boundary.
const (
	ExitContinue = 0 // new content present, downstream stages should run
	ExitNoWork   = 1 // no data or nothing new, stop cleanly
	ExitFailure  = 2 // processing error
)

// Run executes Merge then Deduplicate for date and returns the process
// exit code for the combined outcome. The mapping is total: every status
// pair resolves to exactly one of ExitContinue, ExitNoWork, ExitFailure.
func Run(cfg types.StoreConfig, date time.Time, w io.Writer) int {
	fmt.Fprintln(w, "merging same-day entries...")

	switch s := Merge(cfg, date, w); s {
	case StatusMergeSuccess:
		fmt.Fprintln(w, "merge complete")
	case StatusNoData:
		fmt.Fprintln(w, "no data today, stopping workflow")
		return ExitNoWork
	default:
		fmt.Fprintf(w, "merge failed (%s), stopping workflow\n", s)
		return ExitFailure
	}

	fmt.Fprintln(w, "checking rolling-window duplicates...")

	switch s := Deduplicate(cfg, date, w); s {
	case StatusHasNewContent:
		fmt.Fprintln(w, "new content found, continuing workflow")
		return ExitContinue
	case StatusNoNewContent:
		fmt.Fprintln(w, "no new content, stopping workflow")
		return ExitNoWork
	case StatusNoData:
		fmt.Fprintln(w, "no data today, stopping workflow")
		return ExitNoWork
	default:
		fmt.Fprintf(w, "dedup failed (%s), stopping workflow\n", s)
		return ExitFailure
	}
}
