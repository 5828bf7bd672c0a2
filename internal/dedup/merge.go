// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses same-day multi-category duplicates and removes
// papers already seen within the rolling history window. Both operations
// report a terminal Status; the workflow gate maps statuses to the
// process exit code the outer scheduler consumes.
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

// Status is the terminal state of a merge or dedup pass.
type Status string

const (
	// StatusMergeSuccess means the same-day merge completed and the store
	// was rewritten.
	StatusMergeSuccess Status = "merge_success"

	// StatusHasNewContent means papers remain after dedup.
	StatusHasNewContent Status = "has_new_content"

	// StatusNoNewContent means every paper was a historical duplicate and
	// the day's store was deleted.
	StatusNoNewContent Status = "no_new_content"

	// StatusNoData means the day's store is absent or empty. A legitimate
	// terminal state, not an error.
	StatusNoData Status = "no_data"

	// StatusError means a store read or write failed.
	StatusError Status = "error"
)

// Merge collapses records sharing an ID within the daily store for date.
// The same paper appears once per category it was collected under; after
// Merge each ID appears exactly once, carrying the union of its category
// codes, and the store file is rewritten in place.
func Merge(cfg types.StoreConfig, date time.Time, w io.Writer) Status {
	path := store.Path(cfg.DataDir, date)

	papers, err := store.Load(path, w)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "no daily store for %s\n", date.Format(types.StoreDateLayout))
			return StatusNoData
		}
		fmt.Fprintf(w, "merge: %v\n", err)
		return StatusError
	}
	fmt.Fprintf(w, "loaded %d records for %s\n", len(papers), date.Format(types.StoreDateLayout))

	if len(papers) == 0 {
		return StatusNoData
	}

	merged := mergeByID(papers)
	fmt.Fprintf(w, "merged into %d papers\n", len(merged))

	if err := store.Save(path, merged); err != nil {
		fmt.Fprintf(w, "merge: %v\n", err)
		return StatusError
	}
	return StatusMergeSuccess
}

// mergeByID groups papers by ID in first-seen order. The first occurrence
// of an ID is the base record; later occurrences contribute only their
// category codes. Each base's category list is then reduced to its
// distinct values, preserving first appearance order.
func mergeByID(papers []types.Paper) []types.Paper {
	index := make(map[string]int, len(papers))
	var merged []types.Paper

	for _, p := range papers {
		if i, ok := index[p.ID]; ok {
			merged[i].Category = append(merged[i].Category, p.Category...)
			continue
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}

	for i := range merged {
		merged[i].Category = distinct(merged[i].Category)
	}
	return merged
}

// distinct removes duplicate values, keeping first appearance order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
