// Package session persists the caller-side browsing state between CLI runs:
// the last query of each tab, its full ranked result and the paging cursor.
// The rankers never read or write it.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/otakulab/anirec/internal/paging"
	"github.com/otakulab/anirec/internal/rank"
)

// Tab names.
const (
	TabSimilar = "similar"
	TabGenre   = "genre"
)

// Tabs lists every tab in display order.
var Tabs = []string{TabSimilar, TabGenre}

// TabState is one tab's query, ranked result and read position.
type TabState struct {
	Query     string        `json:"query,omitempty"`
	Genres    []string      `json:"genres,omitempty"`
	Results   rank.Result   `json:"results,omitempty"`
	Cursor    paging.Cursor `json:"cursor"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// State holds both tabs.
type State struct {
	Similar TabState `json:"similar"`
	Genre   TabState `json:"genre"`
}

// Tab returns the named tab for in-place updates.
func (s *State) Tab(name string) (*TabState, error) {
	switch name {
	case TabSimilar:
		return &s.Similar, nil
	case TabGenre:
		return &s.Genre, nil
	default:
		return nil, fmt.Errorf("unknown tab %q (valid: %s, %s)", name, TabSimilar, TabGenre)
	}
}

// Clear resets one tab to its empty state.
func (s *State) Clear(name string) error {
	tab, err := s.Tab(name)
	if err != nil {
		return err
	}
	*tab = TabState{}
	return nil
}

// Start replaces the tab's results with a fresh ranking and rewinds the cursor.
func (t *TabState) Start(results rank.Result, batchSize int) {
	t.Results = results
	t.Cursor.BatchSize = paging.NewCursor(batchSize).BatchSize
	t.Cursor.Reset()
	t.UpdatedAt = time.Now().UTC()
}

// Next reveals the next batch of results and advances the cursor.
// It returns the batch and the position of its first entry.
func (t *TabState) Next() (rank.Result, int) {
	start, end := t.Cursor.Next(len(t.Results))
	return paging.Window(t.Results, start, end), start
}

// HasMore reports whether unrevealed results remain.
func (t *TabState) HasMore() bool {
	return t.Cursor.HasMore(len(t.Results))
}

// Remaining returns how many results are still unrevealed.
func (t *TabState) Remaining() int {
	return t.Cursor.Remaining(len(t.Results))
}

// Ran reports whether a query has been stored in the tab, even one that
// produced no results.
func (t *TabState) Ran() bool {
	return !t.UpdatedAt.IsZero()
}

// Empty reports whether the tab holds no results.
func (t *TabState) Empty() bool {
	return len(t.Results) == 0
}

// Read loads the session file.
// Returns an empty state if the file doesn't exist or can't be parsed.
func Read(path string) *State {
	data, err := os.ReadFile(path)
	if err != nil {
		return &State{}
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return &State{}
	}
	return &s
}

// Write saves the session file atomically.
func Write(path string, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming %s: %w", tempPath, err)
	}

	return nil
}
