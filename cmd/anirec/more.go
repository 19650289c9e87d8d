package main

import (
	"fmt"

	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/session"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(moreCmd)
}

var moreCmd = &cobra.Command{
	Use:       "more <similar|genre>",
	Short:     "Show the next batch of a previous recommendation",
	Long:      `Reveal the next batch of results from the last 'similar' or 'genre' run.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: session.Tabs,
	RunE:      runMore,
}

func runMore(cmd *cobra.Command, args []string) error {
	tab := args[0]
	repoRoot := mustFindRepository()

	path := config.SessionPath(repoRoot)
	state := session.Read(path)
	ts, err := state.Tab(tab)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if err := checkMore(tab, ts); err != nil {
		exitWithError(ExitNoResults, "%v", err)
	}

	outputBatch(revealNext(path, state, tab, ts))
	return nil
}

// checkMore reports why a tab has no further batch, or nil if it has one.
func checkMore(tab string, ts *session.TabState) error {
	switch {
	case !ts.Ran():
		return fmt.Errorf("no %s results yet; run 'anirec %s' first", tab, tab)
	case ts.Empty():
		return fmt.Errorf("last %s query %s returned no results", tab, describeQuery(ts))
	case !ts.HasMore():
		return fmt.Errorf("all %d %s results already shown", len(ts.Results), tab)
	}
	return nil
}

// describeQuery renders a tab's stored query for messages.
func describeQuery(ts *session.TabState) string {
	if ts.Query != "" {
		return fmt.Sprintf("%q", ts.Query)
	}
	return "[" + formatList(ts.Genres) + "]"
}
