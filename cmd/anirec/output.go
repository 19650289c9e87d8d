package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/otakulab/anirec/internal/rank"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 20 // Default limit for search command

	TitleMaxLen  = 60 // Used in result listings
	PosterMaxLen = 70 // Used in --human detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BatchResponse is one revealed page of a tab's ranked results.
type BatchResponse struct {
	Tab       string      `json:"tab"`
	Query     string      `json:"query,omitempty"`
	Genres    []string    `json:"genres,omitempty"`
	Offset    int         `json:"offset"`
	Total     int         `json:"total"`
	HasMore   bool        `json:"has_more"`
	Remaining int         `json:"remaining"`
	Results   rank.Result `json:"results"`
}

// printBatchHuman prints a page of ranked results with 1-based positions.
func printBatchHuman(b BatchResponse) {
	switch {
	case b.Query != "":
		outputHuman("Titles similar to %q", b.Query)
	case len(b.Genres) > 0:
		outputHuman("Titles with genres %s", strings.Join(b.Genres, ", "))
	default:
		outputHuman("All titles")
	}
	outputHuman(" (%d-%d of %d)\n\n", min(b.Offset+1, b.Total), b.Offset+len(b.Results), b.Total)

	for i, e := range b.Results {
		outputHuman("%d. [%.3f] %s\n", b.Offset+i+1, e.Score, truncateString(e.Name, TitleMaxLen))
		if e.Poster != "" {
			outputHuman("   %s\n", truncateString(e.Poster, PosterMaxLen))
		}
	}

	if b.HasMore {
		outputHuman("\n%d more. Run 'anirec more %s' for the next batch.\n", b.Remaining, b.Tab)
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatList formats a list of labels as a comma-separated string.
func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
