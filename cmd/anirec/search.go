package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/storage"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultSearchLimit, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find titles by name",
	Long: `Find catalog titles whose name matches the given words (prefix match).

Use this to find the exact title to pass to 'anirec similar'. The title index
is rebuilt automatically whenever the catalog file changes.

Examples:
  anirec search bebop
  anirec search "attack tit" --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// SearchResult is the response for the search command.
type SearchResult struct {
	Query   string             `json:"query"`
	Results []storage.TitleHit `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if searchLimit < 1 {
		exitWithError(ExitError, "--limit must be positive")
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	if _, err := ensureTitleIndex(db, repoRoot, cfg, catalogOverride); err != nil {
		if errors.Is(err, catalog.ErrLoad) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	hits, err := db.SearchNames(query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching titles: %v", err)
	}
	if hits == nil {
		hits = []storage.TitleHit{}
	}

	if humanOutput {
		if len(hits) == 0 {
			fmt.Printf("No titles match %q\n", query)
		}
		for i, h := range hits {
			fmt.Printf("%d. %s\n", i+1, truncateString(h.Name, TitleMaxLen))
			fmt.Printf("   cluster %d | %s\n", h.Cluster, formatList(h.Genres))
		}
	} else {
		outputJSON(SearchResult{Query: query, Results: hits})
	}
	return nil
}
