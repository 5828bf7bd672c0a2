// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/ssrn-daily/pkg/types"
)

func TestPath(t *testing.T) {
	date := time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC)
	got := Path("data", date)
	want := filepath.Join("data", "2025-07-22.jsonl")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2025-07-22.jsonl")

	papers := []types.Paper{
		{ID: "100", Title: "Paper A", ApprovedDate: "22 Jul 2025", Category: []string{"IS"}},
		{ID: "200", Title: "Paper B", ApprovedDate: "22 Jul 2025", Category: []string{"MKT"},
			Detail: &types.PaperDetail{Abstract: "An abstract."}},
	}

	if err := Save(path, papers); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != "100" || got[1].ID != "200" {
		t.Errorf("IDs = %s, %s; want 100, 200", got[0].ID, got[1].ID)
	}
	if got[1].Detail == nil || got[1].Detail.Abstract != "An abstract." {
		t.Errorf("detail not preserved: %+v", got[1].Detail)
	}
}

func TestSaveCreatesDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "2025-07-22.jsonl")

	if err := Save(path, []types.Paper{{ID: "1"}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.jsonl"), io.Discard)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2025-07-22.jsonl")

	content := `{"id": "100", "approved_date": "22 Jul 2025", "category": ["IS"]}
not json at all
{"id": "200", "approved_date": "22 Jul 2025", "category": ["MKT"]}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings bytes.Buffer
	papers, err := Load(path, &warnings)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}
	if !strings.Contains(warnings.String(), "line 2") {
		t.Errorf("expected a warning naming line 2, got %q", warnings.String())
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.jsonl")
	content := "{\"id\": \"1\", \"category\": []}\n\n{\"id\": \"2\", \"category\": []}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	papers, err := Load(path, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("len(papers) = %d, want 2", len(papers))
	}
}

func TestLoadIDsMissingFileIsEmptySet(t *testing.T) {
	ids, err := LoadIDs(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("LoadIDs() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("len(ids) = %d, want 0", len(ids))
	}
}

func TestLoadIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.jsonl")
	content := `{"id": "100", "category": []}
garbage line
{"id": "200", "category": []}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := LoadIDs(path)
	if err != nil {
		t.Fatalf("LoadIDs() error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2", len(ids))
	}
	for _, id := range []string{"100", "200"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("missing id %s", id)
		}
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.jsonl")
	if err := Save(path, []types.Paper{{ID: "1"}}); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("store file still exists after Remove")
	}
}
