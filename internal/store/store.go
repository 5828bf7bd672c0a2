// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store reads and writes daily stores: one newline-delimited JSON
// file of paper records per calendar date. The store for a date is owned
// exclusively by the pipeline run processing that date.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// maxLineBytes bounds a single JSONL record. Detail abstracts are long;
// listing records are not remotely near this.
const maxLineBytes = 4 * 1024 * 1024

// Path returns the daily store file for a date: dataDir/YYYY-MM-DD.jsonl.
func Path(dataDir string, date time.Time) string {
	return filepath.Join(dataDir, date.Format(types.StoreDateLayout)+".jsonl")
}

// Load reads all records from a daily store file. A line that fails to
// parse is skipped with a warning on w rather than aborting the load, so
// one corrupt record cannot take down the day's pipeline. A missing file
// surfaces as an error satisfying os.IsNotExist / errors.Is(fs.ErrNotExist).
func Load(path string, w io.Writer) ([]types.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening daily store: %w", err)
	}
	defer f.Close()

	var papers []types.Paper
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p types.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			fmt.Fprintf(w, "warning: %s line %d: skipping malformed record: %v\n", filepath.Base(path), lineNo, err)
			continue
		}
		papers = append(papers, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading daily store %s: %w", path, err)
	}
	return papers, nil
}

// LoadIDs reads the ID set of a daily store. A missing file is not an
// error and contributes an empty set; this is how absent history days are
// treated during rolling-window dedup. Malformed lines are skipped
// silently here since history stores are read-only inputs.
func LoadIDs(path string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("opening history store %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(line, &p); err != nil || p.ID == "" {
			continue
		}
		ids[p.ID] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history store %s: %w", path, err)
	}
	return ids, nil
}

// Save rewrites the daily store file with the given records, one JSON
// object per line, creating the data directory if needed.
func Save(path string, papers []types.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating daily store %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, p := range papers {
		if err := enc.Encode(p); err != nil {
			f.Close()
			return fmt.Errorf("encoding record %s: %w", p.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing daily store %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing daily store %s: %w", path, err)
	}
	return nil
}

// Remove deletes the daily store file.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing daily store %s: %w", path, err)
	}
	return nil
}
