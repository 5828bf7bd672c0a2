// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize condenses each paper of a daily store into the fixed
// eight-field research-content schema consumed downstream.
package summarize

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ssrn-daily/internal/store"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// AIBackend abstracts the Generative AI API so tests can supply a mock.
// Each implementation handles a single paper and returns the filled
// schema.
type AIBackend interface {
	Summarize(ctx context.Context, paper types.Paper) (types.PaperSummary, error)
}

// BatchSummary holds counts from a batch summarization run.
type BatchSummary struct {
	Summarized int
	Skipped    int
	Failed     int
}

// Total returns the number of papers processed.
func (s BatchSummary) Total() int {
	return s.Summarized + s.Skipped + s.Failed
}

// HasFailures reports whether any papers failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// summaryFile is the YAML document written per paper.
type summaryFile struct {
	ID       string             `yaml:"id"`
	Title    string             `yaml:"title,omitempty"`
	Category []string           `yaml:"category,omitempty"`
	Summary  types.PaperSummary `yaml:"summary"`
}

// Run summarizes every paper in the daily store for date, writing one
// YAML file per paper under cfg.SummariesDir/<date>/. Papers whose
// summary file already exists are skipped, so the stage can be re-run
// after partial failures. A per-paper failure is reported and counted,
// never aborting the batch.
func Run(ctx context.Context, backend AIBackend, cfg types.SummaryConfig, date time.Time, w io.Writer) (BatchSummary, error) {
	path := store.Path(cfg.DataDir, date)
	papers, err := store.Load(path, w)
	if err != nil {
		return BatchSummary{}, err
	}

	outDir := filepath.Join(cfg.SummariesDir, date.Format(types.StoreDateLayout))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating summaries directory: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var summary BatchSummary

	for _, p := range papers {
		outPath := filepath.Join(outDir, p.ID+".yaml")

		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped %s (summary exists)\n", p.ID)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "summarizing %s\n", p.ID)

		s, err := callWithRetry(ctx, backend, p, maxRetries)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.ID, err)
			summary.Failed++
			continue
		}

		if err := validate(s); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.ID, err)
			summary.Failed++
			continue
		}

		doc := summaryFile{ID: p.ID, Title: p.Title, Category: p.Category, Summary: s}
		if err := writeSummary(outPath, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: write error: %v\n", p.ID, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "summarized %s\n", p.ID)
		summary.Summarized++
	}

	return summary, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the AI backend with exponential backoff.
func callWithRetry(ctx context.Context, backend AIBackend, paper types.Paper, maxRetries int) (types.PaperSummary, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return types.PaperSummary{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		s, err := backend.Summarize(ctx, paper)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return types.PaperSummary{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// validate checks that every field of the schema is filled. The contract
// requires all eight.
func validate(s types.PaperSummary) error {
	fields := map[string]string{
		"tldr":                    s.TLDR,
		"research_question":       s.ResearchQuestion,
		"motivation":              s.Motivation,
		"theoretical_framework":   s.TheoreticalFramework,
		"method":                  s.Method,
		"findings":                s.Findings,
		"theory_contributions":    s.TheoryContributions,
		"practical_contributions": s.PracticalContributions,
	}
	for name, v := range fields {
		if v == "" {
			return fmt.Errorf("summary field %s is empty", name)
		}
	}
	return nil
}

// writeSummary marshals the summary document to a YAML file.
func writeSummary(path string, doc summaryFile) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
