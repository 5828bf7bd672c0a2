// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssrn-daily/internal/crawl"
	"github.com/pdiddy/ssrn-daily/internal/store"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "ssrn-daily/0.1"
	defaultCategories = "IS,MKT,ECON,MG"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [date]",
	Short: "Collect papers approved on a date from the SSRN API",
	Long: `Crawl pages through the SSRN listing for each configured category,
collects every paper whose approval date equals the target date together
with its detail record, and writes the result as the day's store file.
The date argument is YYYY-MM-DD and defaults to today.

Records are written pre-merge: a paper listed under several categories
appears once per category until 'check' merges the day's store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().String("categories", defaultCategories, "comma-separated category codes")
	crawlCmd.Flags().String("data-dir", "data", "directory for daily store files")
	crawlCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	crawlCmd.Flags().Float64("rate", 0, "request rate limit in requests per second (default 2)")
	crawlCmd.Flags().Int("max-pages", 0, "pagination cap per category (default 200)")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if len(args) == 1 {
		var err error
		date, err = time.Parse(types.StoreDateLayout, args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
		}
	}
	// Compare as a calendar date.
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	rps, _ := cmd.Flags().GetFloat64("rate")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	catsFlag, _ := cmd.Flags().GetString("categories")
	dataDir := stringSetting(cmd, "data-dir", "data_dir")

	var categories []string
	for _, c := range strings.Split(catsFlag, ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	if len(categories) == 0 {
		return fmt.Errorf("no categories given")
	}

	cfg := types.CrawlConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DataDir:           dataDir,
		Categories:        categories,
		MaxPages:          maxPages,
		RequestsPerSecond: rps,
	}

	c := crawl.New(cfg, nil)
	papers, reports, err := c.Run(cmd.Context(), date, os.Stderr)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
		}
	}

	if len(papers) == 0 {
		fmt.Fprintf(os.Stderr, "no papers approved on %s\n", date.Format(types.StoreDateLayout))
	} else {
		path := store.Path(dataDir, date)
		if err := store.Save(path, papers); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d records to %s\n", len(papers), path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d categories failed during crawl", failed, len(reports))
	}
	return nil
}
