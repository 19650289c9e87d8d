// Package catalog holds the immutable anime table that every ranking call reads.
//
// A Catalog is built once, validated as a whole, and never mutated afterwards,
// so it can be shared freely between callers.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/otakulab/anirec/internal/anime"
	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/storage"
)

// Errors returned by catalog operations.
var (
	ErrLoad     = errors.New("catalog load failed")
	ErrNotFound = errors.New("title not in catalog")
)

// Catalog is the read-only item table with name, cluster and genre indexes.
type Catalog struct {
	items  []anime.Item
	width  int
	byName map[string]int

	// Posting lists keyed by cluster id and exact genre label.
	// Bitmap positions are indexes into items, so iteration is catalog order.
	clusters map[int]*roaring.Bitmap
	genres   map[string]*roaring.Bitmap
}

// ClusterSize reports how many items share a cluster id.
type ClusterSize struct {
	Cluster int `json:"cluster"`
	Size    int `json:"size"`
}

// Load reads and validates a JSONL catalog artifact.
// width fixes the expected feature width; 0 takes it from the first row.
// Every failure wraps ErrLoad.
func Load(path string, width int) (*Catalog, error) {
	items, err := storage.ReadItems(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	cat, err := New(items, width)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("path", path).
		Int("items", cat.Len()).
		Int("width", cat.Width()).
		Int("clusters", len(cat.clusters)).
		Msg("catalog loaded")

	return cat, nil
}

// New builds a catalog from rows already in memory, applying the same
// validation as Load. A single bad row fails the whole catalog.
func New(items []anime.Item, width int) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrLoad)
	}
	if width < 0 {
		return nil, fmt.Errorf("%w: invalid feature width %d", ErrLoad, width)
	}
	if width == 0 {
		width = len(items[0].Features)
	}

	c := &Catalog{
		items:    slices.Clone(items),
		width:    width,
		byName:   make(map[string]int, len(items)),
		clusters: make(map[int]*roaring.Bitmap),
		genres:   make(map[string]*roaring.Bitmap),
	}

	for i := range c.items {
		item := &c.items[i]
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrLoad, i+1, err)
		}
		if len(item.Features) != width {
			return nil, fmt.Errorf("%w: row %d (%s): feature width %d, want %d",
				ErrLoad, i+1, item.Name, len(item.Features), width)
		}
		if prev, dup := c.byName[item.Name]; dup {
			return nil, fmt.Errorf("%w: row %d: duplicate name %q (first seen on row %d)",
				ErrLoad, i+1, item.Name, prev+1)
		}
		c.byName[item.Name] = i

		pos := uint32(i)
		postingFor(c.clusters, item.Cluster).Add(pos)
		for _, g := range item.Genres {
			postingFor(c.genres, g).Add(pos)
		}
	}

	return c, nil
}

func postingFor[K comparable](m map[K]*roaring.Bitmap, key K) *roaring.Bitmap {
	b, ok := m[key]
	if !ok {
		b = roaring.New()
		m[key] = b
	}
	return b
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Width returns the feature vector width shared by every item.
func (c *Catalog) Width() int {
	return c.width
}

// Items returns every item in catalog order.
func (c *Catalog) Items() []anime.Item {
	return slices.Clone(c.items)
}

// FindByName looks up a title by exact, case-sensitive name.
func (c *Catalog) FindByName(name string) (anime.Item, error) {
	i, ok := c.byName[name]
	if !ok {
		return anime.Item{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.items[i], nil
}

// ItemsInCluster returns all items with the given cluster id, in catalog order.
func (c *Catalog) ItemsInCluster(cluster int) []anime.Item {
	return c.collect(c.clusters[cluster])
}

// ItemsWithGenres returns items tagged with every genre in genres, in catalog order.
// An empty genres slice matches every item.
func (c *Catalog) ItemsWithGenres(genres []string) []anime.Item {
	if len(genres) == 0 {
		return c.Items()
	}

	var result *roaring.Bitmap
	for _, g := range genres {
		posting, ok := c.genres[g]
		if !ok {
			return nil
		}
		if result == nil {
			result = posting.Clone()
		} else {
			result.And(posting)
		}
		if result.IsEmpty() {
			return nil
		}
	}
	return c.collect(result)
}

func (c *Catalog) collect(b *roaring.Bitmap) []anime.Item {
	if b == nil || b.IsEmpty() {
		return nil
	}
	out := make([]anime.Item, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		out = append(out, c.items[it.Next()])
	}
	return out
}

// UniqueGenres returns every genre label in the catalog, sorted, with the
// unknown placeholder removed.
func (c *Catalog) UniqueGenres() []string {
	out := make([]string, 0, len(c.genres))
	for g := range c.genres {
		if anime.IsUnknownGenre(g) {
			continue
		}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Clusters returns the size of every cluster, ordered by cluster id.
func (c *Catalog) Clusters() []ClusterSize {
	out := make([]ClusterSize, 0, len(c.clusters))
	for id, b := range c.clusters {
		out = append(out, ClusterSize{Cluster: id, Size: int(b.GetCardinality())})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cluster < out[j].Cluster
	})
	return out
}
