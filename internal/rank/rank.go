// Package rank implements the two recommendation paths: cluster-scoped
// similarity to a chosen title, and genre filtering. Both return the full
// ranked list; paging is left to the caller.
package rank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/logging"
)

// Errors returned by the rankers.
var (
	// ErrNotFound means the query title is not in the catalog.
	ErrNotFound = catalog.ErrNotFound

	// ErrNoMatches means no item carries every requested genre.
	ErrNoMatches = errors.New("no titles match the selected genres")
)

// Weights are the linear blend coefficients of the weighted score.
type Weights struct {
	Similarity float64 `json:"similarity"`
	Score      float64 `json:"score"`
	Popularity float64 `json:"popularity"`
}

// DefaultSimilarityWeights blends content similarity with score and popularity.
var DefaultSimilarityWeights = Weights{Similarity: 0.5, Score: 0.25, Popularity: 0.25}

// DefaultGenreWeights has no similarity term: there is no query title to compare against.
var DefaultGenreWeights = Weights{Similarity: 0, Score: 0.5, Popularity: 0.5}

// Apply computes the weighted score for one candidate.
func (w Weights) Apply(similarity, score, popularity float64) float64 {
	return w.Similarity*finite(similarity) + w.Score*finite(score) + w.Popularity*finite(popularity)
}

// Entry is one ranked title.
type Entry struct {
	Name   string  `json:"name"`
	Poster string  `json:"poster"`
	Score  float64 `json:"weighted_score"`

	// Similarity to the query title; zero on the genre path.
	Similarity float64 `json:"similarity,omitempty"`
}

// Result is an ordered ranking, best first.
type Result []Entry

// Names returns the ranked titles.
func (r Result) Names() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.Name
	}
	return out
}

// Ranker runs ranking queries against a shared, read-only catalog.
// It holds no per-call state, so one Ranker can serve concurrent callers.
type Ranker struct {
	catalog    *catalog.Catalog
	similarity Weights
	genre      Weights
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithSimilarityWeights overrides the blend used by Recommend.
func WithSimilarityWeights(w Weights) Option {
	return func(r *Ranker) { r.similarity = w }
}

// WithGenreWeights overrides the blend used by FilterAndRank.
func WithGenreWeights(w Weights) Option {
	return func(r *Ranker) { r.genre = w }
}

// NewRanker creates a ranker over cat.
func NewRanker(cat *catalog.Catalog, opts ...Option) *Ranker {
	r := &Ranker{
		catalog:    cat,
		similarity: DefaultSimilarityWeights,
		genre:      DefaultGenreWeights,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend ranks the other members of the query title's cluster by
// weighted blend of cosine similarity, score and popularity.
//
// An unknown title returns ErrNotFound. A title alone in its cluster
// returns an empty result and a nil error.
func (r *Ranker) Recommend(name string) (Result, error) {
	query, err := r.catalog.FindByName(name)
	if err != nil {
		return nil, err
	}

	members := r.catalog.ItemsInCluster(query.Cluster)
	result := make(Result, 0, len(members))
	for _, m := range members {
		if m.Name == query.Name {
			continue
		}
		sim := CosineSimilarity(query.Features, m.Features)
		result = append(result, Entry{
			Name:       m.Name,
			Poster:     m.Poster,
			Score:      r.similarity.Apply(sim, m.Score, m.Popularity),
			Similarity: finite(sim),
		})
	}

	sortDescending(result)

	logging.Debug().
		Str("query", name).
		Int("cluster", query.Cluster).
		Int("results", len(result)).
		Msg("recommend")

	return result, nil
}

// FilterAndRank ranks every title carrying all of genres by weighted blend
// of score and popularity. An empty genres slice ranks the whole catalog.
// If nothing matches, it returns ErrNoMatches.
func (r *Ranker) FilterAndRank(genres []string) (Result, error) {
	matched := r.catalog.ItemsWithGenres(genres)
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoMatches, genres)
	}

	result := make(Result, len(matched))
	for i, m := range matched {
		result[i] = Entry{
			Name:   m.Name,
			Poster: m.Poster,
			Score:  r.genre.Apply(0, m.Score, m.Popularity),
		}
	}

	sortDescending(result)

	logging.Debug().
		Strs("genres", genres).
		Int("results", len(result)).
		Msg("filter and rank")

	return result, nil
}

// Genres lists the genre labels a caller may filter on.
func (r *Ranker) Genres() []string {
	return r.catalog.UniqueGenres()
}

// sortDescending orders by weighted score, best first. The sort is stable,
// so ties keep catalog order and repeated calls give identical output.
func sortDescending(result Result) {
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
}
