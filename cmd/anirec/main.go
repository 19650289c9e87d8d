// Package main provides the anirec CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/otakulab/anirec/internal/catalog"
	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/logging"
	"github.com/otakulab/anirec/internal/rank"
	"github.com/otakulab/anirec/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool

	// catalogOverride points at an artifact outside the repository config
	catalogOverride string

	logLevel  string
	logFormat string
)

// Environment variables read at startup (also from .env).
const (
	EnvLogLevel  = "ANIREC_LOG_LEVEL"
	EnvLogFormat = "ANIREC_LOG_FORMAT"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (bad flags, arg counts) are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anirec",
	Short: "Anime recommendations from a precomputed catalog",
	Long: `anirec recommends anime from a precomputed catalog of titles.

Two ways to get recommendations:
  - similar: titles from the same cluster as a chosen title, ranked by
    content similarity blended with score and popularity
  - genre:   titles carrying every selected genre, ranked by score and popularity

Results are revealed in batches; 'anirec more' shows the next batch and
'anirec clear' resets. All commands output JSON by default.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupEnvironment,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&catalogOverride, "catalog", "", "Catalog JSONL to use instead of the repository catalog")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
	rootCmd.Version = Version
}

// setupEnvironment loads .env and configures logging.
// Precedence: flags, then environment, then the global config file.
func setupEnvironment(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := logging.DefaultConfig()
	if global, err := config.LoadGlobalConfig(); err == nil {
		cfg.Level = firstNonEmpty(global.LogLevel, cfg.Level)
		cfg.Format = firstNonEmpty(global.LogFormat, cfg.Format)
	}
	cfg.Level = firstNonEmpty(logLevel, os.Getenv(EnvLogLevel), cfg.Level)
	cfg.Format = firstNonEmpty(logFormat, os.Getenv(EnvLogFormat), cfg.Format)
	logging.Init(cfg)

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks global config repo_path first, then current working directory.
func getStartingDirectory() (string, int) {
	if root := config.GetRepoPath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadCatalog loads the catalog, exits on error.
// A load failure is fatal: no ranking is served from a partial catalog.
func mustLoadCatalog(repoRoot string, cfg *config.Config) *catalog.Catalog {
	cat, err := loadCatalog(repoRoot, cfg, catalogOverride)
	if err != nil {
		if errors.Is(err, catalog.ErrLoad) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "loading catalog: %v", err)
	}
	return cat
}

// mustOpenDatabase opens the title index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// newRanker builds a ranker with the weights from cfg.
func newRanker(cat *catalog.Catalog, cfg *config.Config) *rank.Ranker {
	return rank.NewRanker(cat,
		rank.WithSimilarityWeights(rankWeights(cfg.SimilarityWeights)),
		rank.WithGenreWeights(rankWeights(cfg.GenreWeights)),
	)
}

func rankWeights(w config.Weights) rank.Weights {
	return rank.Weights{Similarity: w.Similarity, Score: w.Score, Popularity: w.Popularity}
}
