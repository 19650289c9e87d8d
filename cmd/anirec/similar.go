package main

import (
	"strings"

	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/session"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(similarCmd)
}

var similarCmd = &cobra.Command{
	Use:   "similar <title>",
	Short: "Recommend titles similar to a given title",
	Long: `Recommend titles from the same cluster as the given title.

Each candidate is scored as
  0.5 * cosine similarity + 0.25 * score + 0.25 * popularity
(weights configurable) and the list is sorted best first. The title itself is
never recommended. The title must match exactly; use 'anirec search' to find
the exact spelling.

The full ranking is kept in the session; 'anirec more similar' reveals the
next batch.

Examples:
  anirec similar "Cowboy Bebop"
  anirec similar Naruto --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimilar,
}

func runSimilar(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	cat := mustLoadCatalog(repoRoot, cfg)

	results, err := newRanker(cat, cfg).Recommend(title)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	logging.Debug().Str("title", title).Int("results", len(results)).Msg("similar ranking")

	batch := startTab(repoRoot, cfg, session.TabSimilar, func(ts *session.TabState) {
		ts.Query = title
	}, results)

	outputBatch(batch)
	return nil
}
