package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/otakulab/anirec/internal/anime"
	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/storage"
)

func testItems() []anime.Item {
	return []anime.Item{
		{Name: "X", Features: []float64{1, 0}, Cluster: 1, Score: 0.9, Popularity: 0.9, Genres: []string{"Action"}},
		{Name: "Y", Features: []float64{1, 0}, Cluster: 1, Score: 0.5, Popularity: 0.5, Genres: []string{"Action", "Comedy"}},
		{Name: "Z", Features: []float64{0, 1}, Cluster: 1, Score: 0.9, Popularity: 0.9, Genres: []string{"unknown"}},
	}
}

func otherItems() []anime.Item {
	return []anime.Item{
		{Name: "P", Features: []float64{1, 1}, Cluster: 7, Score: 0.7, Popularity: 0.2, Genres: []string{"Drama"}},
		{Name: "Q", Features: []float64{0, 1}, Cluster: 7, Score: 0.1, Popularity: 0.3, Genres: []string{"Drama"}},
	}
}

// setupRepo creates a repository with a JSONL catalog and width-agnostic config.
func setupRepo(t *testing.T, items []anime.Item) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.FeatureWidth = 0
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := storage.WriteItems(cfg.CatalogPath(root), items); err != nil {
		t.Fatalf("WriteItems() error = %v", err)
	}
	return root, cfg
}

// buildCaches loads the configured catalog and writes snapshot and index.
func buildCaches(t *testing.T, root string, cfg *config.Config) {
	t.Helper()
	path := cfg.CatalogPath(root)
	src, err := catalog.SourceOf(path)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(path, cfg.FeatureWidth)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rebuildCaches(root, cat, src); err != nil {
		t.Fatalf("rebuildCaches() error = %v", err)
	}
}

// writeOlderCatalog writes items to name under root with an mtime well
// before any cache written by the test.
func writeOlderCatalog(t *testing.T, root, name string, items []anime.Item) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := storage.WriteItems(path, items); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCatalog_FromJSONL(t *testing.T) {
	root, cfg := setupRepo(t, testItems())

	cat, err := loadCatalog(root, cfg, "")
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cat.Len())
	}
}

func TestLoadCatalog_UsesMatchingSnapshot(t *testing.T) {
	root, cfg := setupRepo(t, testItems())

	// Snapshot holds a different catalog so the source is observable
	src, err := catalog.SourceOf(cfg.CatalogPath(root))
	if err != nil {
		t.Fatal(err)
	}
	snapItems := append(testItems(), anime.Item{Name: "W", Features: []float64{0, 1}, Cluster: 2})
	snapCat, err := catalog.New(snapItems, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := snapCat.SaveSnapshot(config.SnapshotPath(root), src); err != nil {
		t.Fatal(err)
	}

	cat, err := loadCatalog(root, cfg, "")
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if cat.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (snapshot)", cat.Len())
	}

	// Any change to the catalog file invalidates the snapshot, even an older mtime
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(cfg.CatalogPath(root), past, past); err != nil {
		t.Fatal(err)
	}

	cat, err = loadCatalog(root, cfg, "")
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (jsonl)", cat.Len())
	}
}

func TestLoadCatalog_SwitchedCatalogIgnoresSnapshot(t *testing.T) {
	root, cfg := setupRepo(t, testItems())
	buildCaches(t, root, cfg)

	writeOlderCatalog(t, root, "other.jsonl", otherItems())
	cfg.Catalog = "other.jsonl"

	cat, err := loadCatalog(root, cfg, "")
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if _, err := cat.FindByName("P"); err != nil {
		t.Errorf("FindByName(P) error = %v, want title from the configured catalog", err)
	}
	if _, err := cat.FindByName("X"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("FindByName(X) error = %v, want ErrNotFound", err)
	}
}

func TestLoadCatalog_SnapshotWidthMismatch(t *testing.T) {
	root, cfg := setupRepo(t, testItems())
	buildCaches(t, root, cfg)

	// Snapshot width 2 disagrees; JSONL load then fails with the same pin
	cfg.FeatureWidth = 3
	_, err := loadCatalog(root, cfg, "")
	if !errors.Is(err, catalog.ErrLoad) {
		t.Errorf("loadCatalog() error = %v, want ErrLoad", err)
	}
}

func TestLoadCatalog_CorruptSnapshotFallsBack(t *testing.T) {
	root, cfg := setupRepo(t, testItems())

	if err := os.WriteFile(config.SnapshotPath(root), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := loadCatalog(root, cfg, "")
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cat.Len())
	}
}

func TestLoadCatalog_Override(t *testing.T) {
	root, cfg := setupRepo(t, testItems())
	buildCaches(t, root, cfg)

	other := filepath.Join(t.TempDir(), "other.jsonl")
	if err := storage.WriteItems(other, testItems()[:2]); err != nil {
		t.Fatal(err)
	}

	cat, err := loadCatalog(root, cfg, other)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cat.Len())
	}
}

func TestLoadCatalog_MissingCatalog(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()

	_, err := loadCatalog(root, cfg, "")
	if !errors.Is(err, catalog.ErrLoad) {
		t.Errorf("loadCatalog() error = %v, want ErrLoad", err)
	}
}

func TestCatalogFile(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()

	if got, want := catalogFile(root, cfg, ""), cfg.CatalogPath(root); got != want {
		t.Errorf("catalogFile() = %q, want %q", got, want)
	}
	if got := catalogFile(root, cfg, "/tmp/x.jsonl"); got != "/tmp/x.jsonl" {
		t.Errorf("catalogFile(override) = %q", got)
	}
}

func TestRebuildCaches(t *testing.T) {
	root, cfg := setupRepo(t, testItems())
	buildCaches(t, root, cfg)

	if _, err := os.Stat(config.SnapshotPath(root)); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("indexed = %d, want 3", n)
	}

	src, _ := catalog.SourceOf(cfg.CatalogPath(root))
	if got, _ := db.Source(); got != src.Key() {
		t.Errorf("index source = %q, want %q", got, src.Key())
	}
}

func TestEnsureTitleIndex(t *testing.T) {
	root, cfg := setupRepo(t, testItems())
	buildCaches(t, root, cfg)

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rebuilt, err := ensureTitleIndex(db, root, cfg, "")
	if err != nil {
		t.Fatalf("ensureTitleIndex() error = %v", err)
	}
	if rebuilt {
		t.Error("index built from the current catalog should not be rebuilt")
	}

	writeOlderCatalog(t, root, "other.jsonl", otherItems())
	cfg.Catalog = "other.jsonl"

	rebuilt, err = ensureTitleIndex(db, root, cfg, "")
	if err != nil {
		t.Fatalf("ensureTitleIndex() error = %v", err)
	}
	if !rebuilt {
		t.Error("switching catalogs should rebuild the index")
	}

	hits, err := db.SearchNames("P", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "P" {
		t.Errorf("SearchNames(P) = %+v, want P from the new catalog", hits)
	}
	if hits, _ := db.SearchNames("X", 10); len(hits) != 0 {
		t.Errorf("SearchNames(X) = %+v, want no titles from the old catalog", hits)
	}
}

func TestEnsureTitleIndex_MissingCatalog(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()

	db, err := storage.OpenDB(filepath.Join(root, "titles.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := ensureTitleIndex(db, root, cfg, ""); !errors.Is(err, catalog.ErrLoad) {
		t.Errorf("ensureTitleIndex() error = %v, want ErrLoad", err)
	}
}

func TestRebuildCaches_DatabaseErrorIsReturned(t *testing.T) {
	root, cfg := setupRepo(t, testItems())

	// A directory where the database file should be makes OpenDB fail
	if err := os.MkdirAll(config.DBPath(root), 0755); err != nil {
		t.Fatal(err)
	}

	path := cfg.CatalogPath(root)
	src, err := catalog.SourceOf(path)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(path, cfg.FeatureWidth)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rebuildCaches(root, cat, src); err == nil {
		t.Error("rebuildCaches() error = nil, want database error")
	}
}
