package main

import (
	"fmt"

	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the snapshot and title index from the catalog",
	Long: `Rebuild the compiled catalog snapshot and the SQLite title index from the
JSONL catalog.

Use this after replacing the catalog file by hand or if the cache becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status   string `json:"status"`
	Items    int    `json:"items"`
	Indexed  int    `json:"indexed"`
	Snapshot string `json:"snapshot"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	// Always read the JSONL source, never a possibly stale snapshot
	path := catalogFile(repoRoot, cfg, catalogOverride)
	src, err := catalog.SourceOf(path)
	if err != nil {
		exitWithError(ExitDataError, "%v: %v", catalog.ErrLoad, err)
	}
	cat, err := catalog.Load(path, cfg.FeatureWidth)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	indexed, err := rebuildCaches(repoRoot, cat, src)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt snapshot and title index with %d titles\n", indexed)
	} else {
		outputJSON(RebuildResult{
			Status:   "rebuilt",
			Items:    cat.Len(),
			Indexed:  indexed,
			Snapshot: config.SnapshotPath(repoRoot),
		})
	}

	return nil
}
