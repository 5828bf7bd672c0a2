// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ssrn-daily/internal/store"
	"github.com/pdiddy/ssrn-daily/pkg/types"
)

func init() {
	// Use a tiny base delay so retry tests finish quickly.
	backoffBase = 1 * time.Millisecond
}

var testDate = time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC)

func fullSummary() types.PaperSummary {
	return types.PaperSummary{
		TLDR:                   "A short take.",
		ResearchQuestion:       "What drives adoption?",
		Motivation:             "Adoption is poorly understood.",
		TheoreticalFramework:   "Diffusion of innovations.",
		Method:                 "Panel regression.",
		Findings:               "Network effects dominate.",
		TheoryContributions:    "Extends diffusion theory.",
		PracticalContributions: "Guides platform rollout.",
	}
}

// mockBackend returns canned summaries or errors per paper ID.
type mockBackend struct {
	calls     int
	summaries map[string]types.PaperSummary
	errs      map[string]error
	failFirst int // fail this many calls before succeeding
}

func (m *mockBackend) Summarize(_ context.Context, p types.Paper) (types.PaperSummary, error) {
	m.calls++
	if m.failFirst > 0 {
		m.failFirst--
		return types.PaperSummary{}, errors.New("transient")
	}
	if err, ok := m.errs[p.ID]; ok {
		return types.PaperSummary{}, err
	}
	if s, ok := m.summaries[p.ID]; ok {
		return s, nil
	}
	return fullSummary(), nil
}

func testConfig(t *testing.T) (types.SummaryConfig, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := types.SummaryConfig{
		AIConfig:     types.AIConfig{Model: "test-model", MaxRetries: 1},
		DataDir:      filepath.Join(dir, "data"),
		SummariesDir: filepath.Join(dir, "summaries"),
	}
	papers := []types.Paper{
		{ID: "100", Title: "Paper A", Category: []string{"IS"}},
		{ID: "200", Title: "Paper B", Category: []string{"IS", "MKT"}},
	}
	require.NoError(t, store.Save(store.Path(cfg.DataDir, testDate), papers))
	return cfg, dir
}

func TestRunWritesSummaryFiles(t *testing.T) {
	cfg, _ := testConfig(t)
	backend := &mockBackend{}

	result, err := Run(context.Background(), backend, cfg, testDate, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summarized)
	assert.Equal(t, 0, result.Failed)
	assert.False(t, result.HasFailures())

	outPath := filepath.Join(cfg.SummariesDir, "2025-07-22", "200.yaml")
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc summaryFile
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "200", doc.ID)
	assert.Equal(t, []string{"IS", "MKT"}, doc.Category)
	assert.Equal(t, fullSummary(), doc.Summary)
}

func TestRunSkipsExistingSummaries(t *testing.T) {
	cfg, _ := testConfig(t)
	outDir := filepath.Join(cfg.SummariesDir, "2025-07-22")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "100.yaml"), []byte("id: \"100\"\n"), 0o644))

	backend := &mockBackend{}
	result, err := Run(context.Background(), backend, cfg, testDate, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summarized)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, backend.calls)
}

func TestRunIsolatesPerPaperFailures(t *testing.T) {
	cfg, _ := testConfig(t)
	backend := &mockBackend{errs: map[string]error{"100": errors.New("api down")}}

	result, err := Run(context.Background(), backend, cfg, testDate, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summarized)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())

	// The failed paper has no output file; the healthy one does.
	_, err = os.Stat(filepath.Join(cfg.SummariesDir, "2025-07-22", "100.yaml"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.SummariesDir, "2025-07-22", "200.yaml"))
	assert.NoError(t, err)
}

func TestRunRejectsIncompleteSummaries(t *testing.T) {
	cfg, _ := testConfig(t)
	partial := fullSummary()
	partial.Findings = ""
	backend := &mockBackend{summaries: map[string]types.PaperSummary{
		"100": partial,
		"200": fullSummary(),
	}}

	result, err := Run(context.Background(), backend, cfg, testDate, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Summarized)
}

func TestRunRetriesTransientFailures(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.MaxRetries = 2
	backend := &mockBackend{failFirst: 1}

	result, err := Run(context.Background(), backend, cfg, testDate, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summarized)
}

func TestRunMissingStore(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.DataDir = filepath.Join(t.TempDir(), "absent")

	_, err := Run(context.Background(), &mockBackend{}, cfg, testDate, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestValidateNamesEmptyField(t *testing.T) {
	s := fullSummary()
	s.Motivation = ""
	err := validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "motivation")

	assert.NoError(t, validate(fullSummary()))
}

func TestClaudeBackendParsesResponse(t *testing.T) {
	summaryJSON := `{"tldr":"t","research_question":"rq","motivation":"m","theoretical_framework":"tf","method":"me","findings":"f","theory_contributions":"tc","practical_contributions":"pc"}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		fmt.Fprintf(w, `{"content":[{"type":"text","text":%q}]}`, summaryJSON)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	backend := &ClaudeBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	paper := types.Paper{
		ID:    "100",
		Title: "Paper A",
		Detail: &types.PaperDetail{
			Abstract: "An abstract.",
			Authors:  []types.DetailAuthor{{FirstName: "Ada", LastName: "Lovelace"}},
		},
	}

	s, err := backend.Summarize(context.Background(), paper)
	require.NoError(t, err)
	assert.Equal(t, "rq", s.ResearchQuestion)
	assert.Equal(t, "pc", s.PracticalContributions)
	assert.NoError(t, validate(s))
}

func TestClaudeBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	backend := &ClaudeBackend{APIKey: "k", Model: "m", Client: ts.Client()}
	_, err := backend.Summarize(context.Background(), types.Paper{ID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRenderPromptPrefersDetailFields(t *testing.T) {
	paper := types.Paper{
		Title: "Listing Title",
		Detail: &types.PaperDetail{
			Title:    "Detail Title",
			Abstract: "The abstract body.",
			Keywords: "platforms, adoption",
			Authors:  []types.DetailAuthor{{FirstName: "Ada", LastName: "Lovelace"}},
		},
	}

	prompt, err := renderPrompt(paper)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Detail Title")
	assert.Contains(t, prompt, "The abstract body.")
	assert.Contains(t, prompt, "Ada Lovelace")
	assert.NotContains(t, prompt, "Listing Title")
}
