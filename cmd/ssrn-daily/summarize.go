// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssrn-daily/internal/secrets"
	"github.com/pdiddy/ssrn-daily/internal/summarize"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

const defaultModel = "claude-sonnet-4-5-20250929"

var summarizeCmd = &cobra.Command{
	Use:   "summarize [date]",
	Short: "Summarize a day's papers into the fixed research-content schema",
	Long: `Summarize reads the (merged, deduplicated) daily store for the given
date and fills the eight-field research schema per paper via the Claude
API, writing one YAML file per paper. Papers already summarized are
skipped, so the stage can be re-run after partial failures.

The API key is read from .secrets/anthropic-api-key unless --api-key is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("model", defaultModel, "Claude model identifier")
	summarizeCmd.Flags().String("api-key", "", "Anthropic API key (overrides .secrets/)")
	summarizeCmd.Flags().String("data-dir", "data", "directory for daily store files")
	summarizeCmd.Flags().String("summaries-dir", "summaries", "base directory for summary output")
	summarizeCmd.Flags().Int("max-retries", 0, "retry attempts per API call (default 3)")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if len(args) == 1 {
		var err error
		date, err = time.Parse(types.StoreDateLayout, args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
		}
	}

	keyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey := secrets.Value(loadedSecrets, secrets.AnthropicAPIKey, keyFlag)
	if apiKey == "" {
		return fmt.Errorf("no Anthropic API key: create .secrets/%s or pass --api-key", secrets.AnthropicAPIKey)
	}

	model, _ := cmd.Flags().GetString("model")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	cfg := types.SummaryConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     apiKey,
			MaxRetries: maxRetries,
		},
		DataDir:      stringSetting(cmd, "data-dir", "data_dir"),
		SummariesDir: stringSetting(cmd, "summaries-dir", "summaries_dir"),
	}

	backend := &summarize.ClaudeBackend{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 2 * time.Minute},
	}

	result, err := summarize.Run(cmd.Context(), backend, cfg, date, os.Stderr)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "no daily store for %s, nothing to summarize\n", date.Format(types.StoreDateLayout))
			return nil
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "summarized %d, skipped %d, failed %d (of %d)\n",
		result.Summarized, result.Skipped, result.Failed, result.Total())

	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed summarization", result.Failed)
	}
	return nil
}
