// Package storage handles the catalog artifact on disk and the SQLite title index.
package storage

import (
	"bufio"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/otakulab/anirec/internal/anime"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// A 305-wide feature row is well under 16KB.
const MaxJSONLLineCapacity = 1024 * 1024

// ReadItems reads all catalog rows from a JSONL file.
// Unlike the session and config readers, a missing file is an error: there is
// no meaningful empty catalog.
func ReadItems(path string) ([]anime.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	var items []anime.Item
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var item anime.Item
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	return items, nil
}

// WriteItems writes all rows to a JSONL file, replacing existing content.
func WriteItems(path string, items []anime.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding item %d: %w", i, err)
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing item %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing catalog file: %w", err)
	}
	return nil
}
