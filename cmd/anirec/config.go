package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/otakulab/anirec/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  anirec config                              # Show all config
  anirec config batch-size                   # Get specific value
  anirec config batch-size 10                # Set value
  anirec config similarity-weights 0.6,0.2,0.2

Keys:
  catalog             Path to the JSONL catalog (relative to the repository root)
  batch-size          Titles revealed per batch (1-100)
  feature-width       Expected feature vector width (0 accepts any consistent width)
  similarity-weights  similarity,score,popularity weights for 'similar'
  genre-weights       similarity,score,popularity weights for 'genre'`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("catalog:            %s\n", cfg.Catalog)
			fmt.Printf("batch-size:         %d\n", cfg.BatchSize)
			fmt.Printf("feature-width:      %d\n", cfg.FeatureWidth)
			fmt.Printf("similarity-weights: %s\n", formatWeights(cfg.SimilarityWeights))
			fmt.Printf("genre-weights:      %s\n", formatWeights(cfg.GenreWeights))
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])

	if len(args) == 1 {
		value, err := getConfigValue(cfg, key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	value := args[1]
	if err := setConfigValue(cfg, key, value); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}

// normalizeKey accepts snake_case and kebab-case keys.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "catalog":
		return cfg.Catalog, nil
	case "batch-size":
		return strconv.Itoa(cfg.BatchSize), nil
	case "feature-width":
		return strconv.Itoa(cfg.FeatureWidth), nil
	case "similarity-weights":
		return formatWeights(cfg.SimilarityWeights), nil
	case "genre-weights":
		return formatWeights(cfg.GenreWeights), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue parses value into the field named by key.
// Range checks happen in Config.Validate on save.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "catalog":
		cfg.Catalog = value
	case "batch-size", "feature-width":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		if key == "batch-size" {
			cfg.BatchSize = n
		} else {
			cfg.FeatureWidth = n
		}
	case "similarity-weights", "genre-weights":
		w, err := parseWeights(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "similarity-weights" {
			cfg.SimilarityWeights = w
		} else {
			cfg.GenreWeights = w
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// parseWeights parses "similarity,score,popularity".
func parseWeights(s string) (config.Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return config.Weights{}, fmt.Errorf("expected similarity,score,popularity, got %q", s)
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return config.Weights{}, fmt.Errorf("invalid weight %q", p)
		}
		vals[i] = v
	}
	return config.Weights{Similarity: vals[0], Score: vals[1], Popularity: vals[2]}, nil
}

func formatWeights(w config.Weights) string {
	return strconv.FormatFloat(w.Similarity, 'g', -1, 64) + "," +
		strconv.FormatFloat(w.Score, 'g', -1, 64) + "," +
		strconv.FormatFloat(w.Popularity, 'g', -1, 64)
}
