package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/storage"
)

// catalogFile returns the JSONL artifact a command reads: the override when
// given, the configured catalog otherwise.
func catalogFile(repoRoot string, cfg *config.Config, override string) string {
	if override != "" {
		return config.ExpandTilde(override)
	}
	return cfg.CatalogPath(repoRoot)
}

// loadCatalog returns the catalog for a command.
//
// An explicit override path is always read as JSONL. Otherwise the compiled
// snapshot is used only when it was built from the configured catalog file as
// it is now (same path, size and mtime) and its width agrees with the pinned
// width; in every other case the JSONL is read.
func loadCatalog(repoRoot string, cfg *config.Config, override string) (*catalog.Catalog, error) {
	path := catalogFile(repoRoot, cfg, override)
	if override != "" {
		return catalog.Load(path, cfg.FeatureWidth)
	}

	src, err := catalog.SourceOf(path)
	if err != nil {
		// Let the JSONL load report the missing or unreadable file
		return catalog.Load(path, cfg.FeatureWidth)
	}

	snapshotPath := config.SnapshotPath(repoRoot)
	cat, err := catalog.LoadSnapshot(snapshotPath, src)
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, catalog.ErrStaleSnapshot):
		logging.Debug().Err(err).Str("snapshot", snapshotPath).Msg("snapshot not usable, reading catalog")
	case err != nil:
		logging.Warn().Err(err).Str("snapshot", snapshotPath).Msg("ignoring unreadable snapshot")
	case cfg.FeatureWidth != 0 && cat.Width() != cfg.FeatureWidth:
		logging.Warn().
			Int("snapshot_width", cat.Width()).
			Int("feature_width", cfg.FeatureWidth).
			Msg("ignoring snapshot with different feature width")
	default:
		logging.Debug().Str("snapshot", snapshotPath).Int("items", cat.Len()).Msg("catalog loaded from snapshot")
		return cat, nil
	}

	return catalog.Load(path, cfg.FeatureWidth)
}

// rebuildCaches writes the snapshot and the title index from cat, tagging
// both with src, the fingerprint of the file cat was read from.
func rebuildCaches(repoRoot string, cat *catalog.Catalog, src catalog.Source) (int, error) {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}

	if err := cat.SaveSnapshot(config.SnapshotPath(repoRoot), src); err != nil {
		return 0, fmt.Errorf("writing snapshot: %w", err)
	}

	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	n, err := db.RebuildFromItems(cat.Items(), src.Key())
	if err != nil {
		return 0, fmt.Errorf("rebuilding title index: %w", err)
	}
	return n, nil
}

// ensureTitleIndex rebuilds the title index unless it was built from the
// catalog file the command would read, as that file is now.
// It reports whether a rebuild happened.
func ensureTitleIndex(db *storage.DB, repoRoot string, cfg *config.Config, override string) (bool, error) {
	path := catalogFile(repoRoot, cfg, override)
	src, err := catalog.SourceOf(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", catalog.ErrLoad, err)
	}

	indexed, err := db.Source()
	if err != nil {
		return false, err
	}
	if indexed == src.Key() {
		return false, nil
	}

	cat, err := loadCatalog(repoRoot, cfg, override)
	if err != nil {
		return false, err
	}
	n, err := db.RebuildFromItems(cat.Items(), src.Key())
	if err != nil {
		return false, fmt.Errorf("building title index: %w", err)
	}

	logging.Info().Str("catalog", path).Int("titles", n).Msg("title index rebuilt")
	return true, nil
}
