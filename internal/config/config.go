// Package config handles repository and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/otakulab/anirec/internal/paging"
)

// Config represents repository configuration stored in .anirec/config.json.
type Config struct {
	// Catalog is the JSONL artifact; relative paths resolve against the repository root.
	Catalog string `json:"catalog" validate:"required"`

	// FeatureWidth pins the expected feature vector width; 0 accepts the first row's width.
	FeatureWidth int `json:"feature_width" validate:"gte=0"`

	// BatchSize is how many titles each page reveals.
	BatchSize int `json:"batch_size" validate:"gte=1,lte=100"`

	SimilarityWeights Weights `json:"similarity_weights"`
	GenreWeights      Weights `json:"genre_weights"`
}

// Weights mirrors rank.Weights with validation tags.
type Weights struct {
	Similarity float64 `json:"similarity" validate:"gte=0"`
	Score      float64 `json:"score" validate:"gte=0"`
	Popularity float64 `json:"popularity" validate:"gte=0"`
}

const (
	RepoDir      = ".anirec"
	ConfigFile   = "config.json"
	CatalogFile  = "catalog.jsonl"
	CacheDir     = "cache"
	SnapshotFile = "catalog.gob.zst"
	DBFile       = "titles.db"
	SessionFile  = "session.json"

	// DefaultFeatureWidth is the width of the shipped embedding model.
	DefaultFeatureWidth = 305
)

// Environment overrides, applied after config.json.
const (
	EnvCatalog   = "ANIREC_CATALOG"
	EnvBatchSize = "ANIREC_BATCH_SIZE"
)

// Default returns the configuration written by 'anirec init'.
func Default() *Config {
	return &Config{
		Catalog:           filepath.Join(RepoDir, CatalogFile),
		FeatureWidth:      DefaultFeatureWidth,
		BatchSize:         paging.DefaultBatchSize,
		SimilarityWeights: Weights{Similarity: 0.5, Score: 0.25, Popularity: 0.25},
		GenreWeights:      Weights{Similarity: 0, Score: 0.5, Popularity: 0.5},
	}
}

// RepoPath returns the path to the .anirec directory from a root path.
func RepoPath(root string) string {
	return filepath.Join(root, RepoDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RepoDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir)
}

// SnapshotPath returns the path to the compiled catalog snapshot.
func SnapshotPath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir, SnapshotFile)
}

// DBPath returns the path to the title index database.
func DBPath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir, DBFile)
}

// SessionPath returns the path to the browsing session file.
func SessionPath(root string) string {
	return filepath.Join(root, RepoDir, SessionFile)
}

// CatalogPath resolves the configured catalog path against root.
func (c *Config) CatalogPath(root string) string {
	p := ExpandTilde(c.Catalog)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// IsRepository checks if the given path contains an anirec repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RepoPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find an anirec repository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in an anirec repository (no %s directory found)", RepoDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// Missing fields take their defaults; environment overrides apply last.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from ANIREC_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvCatalog)); v != "" {
		c.Catalog = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBatchSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvBatchSize, v)
		}
		c.BatchSize = n
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints and reports the first offending field.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("invalid config: %s must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("invalid config: %s is %s", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}
