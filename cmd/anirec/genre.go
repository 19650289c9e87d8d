package main

import (
	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/session"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(genreCmd)
}

var genreCmd = &cobra.Command{
	Use:   "genre [genre...]",
	Short: "Recommend titles carrying every given genre",
	Long: `Recommend titles that carry all of the given genres.

Matching titles are scored as 0.5 * score + 0.5 * popularity (weights
configurable) and sorted best first. With no genres every title matches.
Genre labels must match exactly; 'anirec genres' lists them.

The full ranking is kept in the session; 'anirec more genre' reveals the
next batch.

Examples:
  anirec genre Action Comedy
  anirec genre "Slice of Life" --human`,
	RunE: runGenre,
}

func runGenre(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	cat := mustLoadCatalog(repoRoot, cfg)

	results, err := newRanker(cat, cfg).FilterAndRank(args)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	logging.Debug().Strs("genres", args).Int("results", len(results)).Msg("genre ranking")

	batch := startTab(repoRoot, cfg, session.TabGenre, func(ts *session.TabState) {
		ts.Genres = append([]string(nil), args...)
	}, results)

	outputBatch(batch)
	return nil
}
