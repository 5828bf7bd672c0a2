// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/pdiddy/ssrn-daily/internal/store"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// defaultHistoryDays is the rolling lookback window.
const defaultHistoryDays = 7

// Deduplicate removes from the daily store for date every record whose ID
// appeared in any of the preceding HistoryDays days' stores. History
// stores are read-only; only the target day's store is ever rewritten or
// deleted. Identifier equality is exact string match: a paper re-approved
// under a new ID within the window is not detected.
func Deduplicate(cfg types.StoreConfig, date time.Time, w io.Writer) Status {
	historyDays := cfg.HistoryDays
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}

	path := store.Path(cfg.DataDir, date)

	papers, err := store.Load(path, w)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "no daily store for %s\n", date.Format(types.StoreDateLayout))
			return StatusNoData
		}
		fmt.Fprintf(w, "dedup: %v\n", err)
		return StatusError
	}
	fmt.Fprintf(w, "today's papers: %d\n", len(papers))

	if len(papers) == 0 {
		return StatusNoData
	}

	historyIDs := make(map[string]struct{})
	for i := 1; i <= historyDays; i++ {
		day := date.AddDate(0, 0, -i)
		ids, err := store.LoadIDs(store.Path(cfg.DataDir, day))
		if err != nil {
			fmt.Fprintf(w, "dedup: %v\n", err)
			return StatusError
		}
		for id := range ids {
			historyIDs[id] = struct{}{}
		}
	}
	fmt.Fprintf(w, "history window (%d days): %d known IDs\n", historyDays, len(historyIDs))

	var remaining []types.Paper
	duplicates := 0
	for _, p := range papers {
		if _, seen := historyIDs[p.ID]; seen {
			duplicates++
			continue
		}
		remaining = append(remaining, p)
	}

	if duplicates == 0 {
		fmt.Fprintln(w, "all content is new")
		return StatusHasNewContent
	}

	fmt.Fprintf(w, "found %d historical duplicates, %d papers remain\n", duplicates, len(remaining))

	if len(remaining) == 0 {
		if err := store.Remove(path); err != nil {
			fmt.Fprintf(w, "dedup: %v\n", err)
			return StatusError
		}
		fmt.Fprintln(w, "all papers were duplicates, deleted today's store")
		return StatusNoNewContent
	}

	if err := store.Save(path, remaining); err != nil {
		fmt.Fprintf(w, "dedup: %v\n", err)
		return StatusError
	}
	return StatusHasNewContent
}
