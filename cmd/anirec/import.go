package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/session"
	"github.com/otakulab/anirec/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <catalog.jsonl>",
	Short: "Validate a catalog artifact and install it in the repository",
	Long: `Validate a precomputed catalog artifact and install it as the repository catalog.

The whole file is validated before anything is written: a single malformed
row, duplicate title or feature vector of the wrong width rejects the import.
On success the snapshot and title index are rebuilt and the browsing session
is cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult is the response for the import command.
type ImportResult struct {
	Status   string `json:"status"`
	Path     string `json:"path"`
	Items    int    `json:"items"`
	Width    int    `json:"width"`
	Clusters int    `json:"clusters"`
	Genres   int    `json:"genres"`
	Indexed  int    `json:"indexed"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	src := config.ExpandTilde(args[0])
	cat, err := catalog.Load(src, cfg.FeatureWidth)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	dest := cfg.CatalogPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		exitWithError(ExitError, "creating catalog directory: %v", err)
	}
	if err := storage.WriteItems(dest, cat.Items()); err != nil {
		exitWithError(ExitError, "writing catalog: %v", err)
	}

	fingerprint, err := catalog.SourceOf(dest)
	if err != nil {
		exitWithError(ExitError, "reading catalog: %v", err)
	}
	indexed, err := rebuildCaches(repoRoot, cat, fingerprint)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	// Stored results refer to the previous catalog
	if err := session.Write(config.SessionPath(repoRoot), &session.State{}); err != nil {
		logging.Warn().Err(err).Msg("could not reset session")
	}

	logging.Info().Str("source", src).Str("dest", dest).Int("items", cat.Len()).Msg("catalog imported")

	result := ImportResult{
		Status:   "imported",
		Path:     dest,
		Items:    cat.Len(),
		Width:    cat.Width(),
		Clusters: len(cat.Clusters()),
		Genres:   len(cat.UniqueGenres()),
		Indexed:  indexed,
	}

	if humanOutput {
		fmt.Printf("Imported %d titles (%d features, %d clusters, %d genres) into %s\n",
			result.Items, result.Width, result.Clusters, result.Genres, dest)
	} else {
		outputJSON(result)
	}

	return nil
}
