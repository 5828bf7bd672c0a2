// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl walks the SSRN listing API per category, collecting the
// papers approved on a target date together with their detail records.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/ssrn-daily/internal/httputil"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute an httptest server.
var (
	listingAPIBase = "https://api.ssrn.com/content/v1/bindings"
	detailAPIBase  = "https://api.ssrn.com/papers/v1/papers"
)

const (
	defaultPageSize          = 50
	defaultMaxPages          = 200
	defaultRequestsPerSecond = 2.0
)

// Crawler traverses the paginated SSRN listing for a set of categories.
// One rate limiter covers every request of a run, listing and detail alike.
type Crawler struct {
	client     *http.Client
	limiter    *rate.Limiter
	cfg        types.CrawlConfig
	categories map[string]int
}

// New builds a Crawler from cfg. A nil categories map selects
// DefaultCategories. The map is read-only after construction.
func New(cfg types.CrawlConfig, categories map[string]int) *Crawler {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	if categories == nil {
		categories = DefaultCategories
	}
	return &Crawler{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cfg:        cfg,
		categories: categories,
	}
}

// CategoryReport summarizes one category's traversal.
type CategoryReport struct {
	Category       string
	Pages          int
	Collected      int
	DetailFailures int

	// Err records a listing-level failure that ended the category early.
	// Papers collected before the failure are still returned.
	Err error
}

// Run crawls every configured category for the target date and returns
// the combined pre-merge record set: one record per (paper, category)
// pair, each carrying a single-element category list. A failure inside
// one category is reported and does not abort the others; Run returns an
// error only for configuration problems such as an unknown category code.
func (c *Crawler) Run(ctx context.Context, date time.Time, w io.Writer) ([]types.Paper, []CategoryReport, error) {
	for _, cat := range c.cfg.Categories {
		if _, ok := c.categories[cat]; !ok {
			return nil, nil, fmt.Errorf("unknown category %q", cat)
		}
	}

	var all []types.Paper
	var reports []CategoryReport

	for _, cat := range c.cfg.Categories {
		papers, report := c.crawlCategory(ctx, cat, date, w)
		all = append(all, papers...)
		reports = append(reports, report)

		if report.Err != nil {
			fmt.Fprintf(w, "%s: aborted after %d pages: %v\n", cat, report.Pages, report.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %d pages, %d papers collected, %d detail failures\n",
			cat, report.Pages, report.Collected, report.DetailFailures)
	}

	return all, reports, nil
}

// crawlCategory pages through one category until the date window closes,
// the page budget runs out, or a listing fetch fails.
func (c *Crawler) crawlCategory(ctx context.Context, cat string, date time.Time, w io.Writer) ([]types.Paper, CategoryReport) {
	report := CategoryReport{Category: cat}
	catID := c.categories[cat]

	var collected []types.Paper

	for page := 0; page < c.cfg.MaxPages; page++ {
		offset := page * c.cfg.PageSize

		entries, err := c.fetchListing(ctx, catID, offset)
		if err != nil {
			report.Err = err
			return collected, report
		}
		report.Pages++

		action, matches := evaluatePage(entries, date)
		if action == pageStop {
			return collected, report
		}

		for _, m := range matches {
			detail, err := c.fetchDetail(ctx, m.ID)
			if err != nil {
				report.DetailFailures++
				fmt.Fprintf(w, "warning: %s: detail fetch for %s failed, skipping: %v\n", cat, m.ID, err)
				continue
			}
			collected = append(collected, types.Paper{
				ID:           m.ID,
				Title:        m.Title,
				URL:          m.URL,
				ApprovedDate: m.ApprovedDate,
				Category:     []string{cat},
				Detail:       detail,
			})
			report.Collected++
		}
	}

	fmt.Fprintf(w, "warning: %s: page budget (%d) exhausted before the date window closed\n", cat, c.cfg.MaxPages)
	return collected, report
}

// fetchListing retrieves and parses one page of the category listing.
func (c *Crawler) fetchListing(ctx context.Context, catID, offset int) ([]listingEntry, error) {
	url := fmt.Sprintf("%s/%d/papers?index=%d&count=%d&sort=0", listingAPIBase, catID, offset, c.cfg.PageSize)

	var page listingPage
	if err := c.getXML(ctx, url, &page); err != nil {
		return nil, fmt.Errorf("listing page at index %d: %w", offset, err)
	}
	return page.Entries, nil
}

// detailEnvelope is the XML body of a detail response.
type detailEnvelope struct {
	XMLName xml.Name `xml:"PaperJson"`
	types.PaperDetail
}

// fetchDetail retrieves the detail record for one paper.
func (c *Crawler) fetchDetail(ctx context.Context, id string) (*types.PaperDetail, error) {
	url := fmt.Sprintf("%s/%s", detailAPIBase, id)

	var env detailEnvelope
	if err := c.getXML(ctx, url, &env); err != nil {
		return nil, err
	}
	detail := env.PaperDetail
	return &detail, nil
}

// getXML performs a rate-limited GET with 429 retry and decodes the XML
// body into out.
func (c *Crawler) getXML(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", url, err)
	}
	return nil
}
