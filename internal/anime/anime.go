// Package anime defines the core domain types for catalog items.
package anime

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// UnknownGenre is the placeholder label the catalog uses for missing genre data.
const UnknownGenre = "unknown"

// Item is one row of the catalog.
type Item struct {
	// Identity
	Name string `json:"name"`

	// Content embedding; width is fixed per catalog
	Features []float64 `json:"features"`

	// Cluster assigned by the offline clustering job
	Cluster int `json:"cluster"`

	// Ranking signals. Absent or null values decode to 0.
	Score      float64 `json:"score"`
	Popularity float64 `json:"popularity"`

	Genres []string `json:"genres"`

	// Poster URL or path, passed through untouched
	Poster string `json:"poster"`
}

// Validation errors.
var (
	ErrEmptyName       = errors.New("name is required")
	ErrNoFeatures      = errors.New("features are required")
	ErrNonFiniteVector = errors.New("features must be finite numbers")
)

// Validate checks the fields every catalog row must carry.
func (it *Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if len(it.Features) == 0 {
		return ErrNoFeatures
	}
	for _, v := range it.Features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteVector
		}
	}
	return nil
}

// VisibleGenres returns the item's genres without the unknown placeholder.
func (it *Item) VisibleGenres() []string {
	out := make([]string, 0, len(it.Genres))
	for _, g := range it.Genres {
		if !IsUnknownGenre(g) {
			out = append(out, g)
		}
	}
	return out
}

// IsUnknownGenre reports whether a label is the unknown placeholder.
// Any label containing "unknown" in any letter case counts, so variants such
// as "UNKNOWN" or "Unknown Genre" are hidden as well.
func IsUnknownGenre(label string) bool {
	return strings.Contains(cases.Fold().String(label), UnknownGenre)
}
