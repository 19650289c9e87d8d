package main

import (
	"errors"

	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/rank"
	"github.com/otakulab/anirec/internal/session"
)

// exitCodeFor maps ranking errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, rank.ErrNotFound), errors.Is(err, rank.ErrNoMatches):
		return ExitNoResults
	default:
		return ExitError
	}
}

// startTab stores a fresh ranking in the named tab and reveals its first batch.
func startTab(repoRoot string, cfg *config.Config, tab string, update func(*session.TabState), results rank.Result) BatchResponse {
	path := config.SessionPath(repoRoot)
	state := session.Read(path)

	ts, err := state.Tab(tab)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	*ts = session.TabState{}
	update(ts)
	ts.Start(results, cfg.BatchSize)

	return revealNext(path, state, tab, ts)
}

// revealNext advances the tab's cursor, persists the session and returns the batch.
func revealNext(path string, state *session.State, tab string, ts *session.TabState) BatchResponse {
	batch, offset := ts.Next()

	if err := session.Write(path, state); err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("could not save session")
	}

	if batch == nil {
		batch = rank.Result{}
	}
	return BatchResponse{
		Tab:       tab,
		Query:     ts.Query,
		Genres:    ts.Genres,
		Offset:    offset,
		Total:     len(ts.Results),
		HasMore:   ts.HasMore(),
		Remaining: ts.Remaining(),
		Results:   batch,
	}
}

func outputBatch(b BatchResponse) {
	if humanOutput {
		printBatchHuman(b)
	} else {
		outputJSON(b)
	}
}
