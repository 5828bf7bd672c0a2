// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"strings"
	"time"

	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// listingPage is the XML body of one listing response.
type listingPage struct {
	Total   int            `xml:"total"`
	Entries []listingEntry `xml:"papers>papers"`
}

// listingEntry is one paper row of a listing page.
type listingEntry struct {
	ID           string `xml:"id"`
	Title        string `xml:"title"`
	URL          string `xml:"url"`
	ApprovedDate string `xml:"approved_date"`
}

// approved parses the entry's approval date. The second return value is
// false when the field is absent or unparseable.
func (e listingEntry) approved() (time.Time, bool) {
	s := strings.TrimSpace(e.ApprovedDate)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(types.ApprovedDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// pageAction is the traversal decision for one listing page.
type pageAction int

const (
	// pageAdvance: every dated entry is newer than the target, move to
	// the next page.
	pageAdvance pageAction = iota

	// pageStop: the target date's window has been passed (or the page
	// carries no parseable dates), stop paging this category.
	pageStop

	// pageCollect: the page straddles the target date. Collect the exact
	// matches, then still advance, since entries are not strictly sorted
	// within the straddling region.
	pageCollect
)

// evaluatePage decides how the traversal proceeds from one page of
// listing entries, given the target date. Pure function of its inputs:
// state lives entirely in (category, offset, target), so the traversal is
// testable on synthetic pages with no network.
//
// The listing is newest-first, so a page whose earliest date is still
// after the target is wholly too new, and a page whose latest date is
// before the target means the window is behind us. A page with no
// parseable dates leaves min/max undefined and is treated as
// end-of-category rather than a crash.
func evaluatePage(entries []listingEntry, target time.Time) (pageAction, []listingEntry) {
	var minDate, maxDate time.Time
	dated := false

	for _, e := range entries {
		d, ok := e.approved()
		if !ok {
			continue
		}
		if !dated {
			minDate, maxDate = d, d
			dated = true
			continue
		}
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	if !dated {
		return pageStop, nil
	}
	if minDate.After(target) {
		return pageAdvance, nil
	}
	if maxDate.Before(target) {
		return pageStop, nil
	}

	var matches []listingEntry
	for _, e := range entries {
		if d, ok := e.approved(); ok && d.Equal(target) {
			matches = append(matches, e)
		}
	}
	return pageCollect, matches
}
