package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(genresCmd)
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres available for filtering",
	Long:  `List every genre in the catalog, sorted, without the "unknown" placeholder.`,
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

// GenresResult is the response for the genres command.
type GenresResult struct {
	Genres []string `json:"genres"`
}

func runGenres(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	cat := mustLoadCatalog(repoRoot, cfg)

	genres := newRanker(cat, cfg).Genres()

	if humanOutput {
		for _, g := range genres {
			fmt.Println(g)
		}
	} else {
		outputJSON(GenresResult{Genres: genres})
	}
	return nil
}
