package main

import (
	"fmt"
	"strings"

	"github.com/otakulab/anirec/internal/anime"
	"github.com/spf13/cobra"
)

var getFeatures bool

func init() {
	getCmd.Flags().BoolVar(&getFeatures, "features", false, "Include the feature vector")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <title>",
	Short: "Show one catalog title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGet,
}

// ItemDetail is the response for the get command.
type ItemDetail struct {
	Name         string    `json:"name"`
	Cluster      int       `json:"cluster"`
	Score        float64   `json:"score"`
	Popularity   float64   `json:"popularity"`
	Genres       []string  `json:"genres"`
	Poster       string    `json:"poster,omitempty"`
	FeatureWidth int       `json:"feature_width"`
	Features     []float64 `json:"features,omitempty"`
}

func newItemDetail(it anime.Item, withFeatures bool) ItemDetail {
	d := ItemDetail{
		Name:         it.Name,
		Cluster:      it.Cluster,
		Score:        it.Score,
		Popularity:   it.Popularity,
		Genres:       it.VisibleGenres(),
		Poster:       it.Poster,
		FeatureWidth: len(it.Features),
	}
	if withFeatures {
		d.Features = it.Features
	}
	return d
}

func runGet(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	cat := mustLoadCatalog(repoRoot, cfg)

	it, err := cat.FindByName(title)
	if err != nil {
		exitWithError(ExitNoResults, "%v", err)
	}
	d := newItemDetail(it, getFeatures)

	if humanOutput {
		fmt.Println(d.Name)
		fmt.Printf("  Cluster:    %d\n", d.Cluster)
		fmt.Printf("  Score:      %.3f\n", d.Score)
		fmt.Printf("  Popularity: %.3f\n", d.Popularity)
		fmt.Printf("  Genres:     %s\n", formatList(d.Genres))
		if d.Poster != "" {
			fmt.Printf("  Poster:     %s\n", truncateString(d.Poster, PosterMaxLen))
		}
		fmt.Printf("  Features:   %d\n", d.FeatureWidth)
	} else {
		outputJSON(d)
	}
	return nil
}
