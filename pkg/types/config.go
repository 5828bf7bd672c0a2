// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records and stage configurations shared
// across the pipeline.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ssrn-daily/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrawlConfig holds settings for the crawl stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the directory holding daily store files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Categories lists the category codes to crawl (e.g. IS, MKT, ECON, MG).
	Categories []string `json:"categories" yaml:"categories"`

	// PageSize is the listing page size (default 50).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPages caps pagination per category. The listing is assumed
	// newest-first, but approval timestamps are not strictly sorted, so
	// the date-window stop condition alone cannot bound a category whose
	// feed misbehaves (default 200).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// RequestsPerSecond limits the request rate across all categories of
	// one crawl run (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// StoreConfig holds settings for the merge/dedup check stage.
type StoreConfig struct {
	// DataDir is the directory holding daily store files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// HistoryDays is the rolling dedup window: how many days before the
	// target date are consulted for previously seen IDs (default 7).
	HistoryDays int `json:"history_days" yaml:"history_days"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SummaryConfig holds settings for the summarize stage.
type SummaryConfig struct {
	AIConfig `yaml:",inline"`

	// DataDir is the directory holding daily store files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SummariesDir is the base directory for summary output; one YAML
	// file per paper is written under SummariesDir/<date>/.
	SummariesDir string `json:"summaries_dir" yaml:"summaries_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Crawl   CrawlConfig   `json:"crawl" yaml:"crawl"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
}
