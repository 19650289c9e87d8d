package main

import (
	"fmt"

	"github.com/otakulab/anirec/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long:  `Show the number of titles, the feature width and the size of every cluster.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// StatsResult is the response for the stats command.
type StatsResult struct {
	Items    int                   `json:"items"`
	Width    int                   `json:"width"`
	Genres   int                   `json:"genres"`
	Clusters []catalog.ClusterSize `json:"clusters"`
}

func runStats(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	cat := mustLoadCatalog(repoRoot, cfg)

	result := StatsResult{
		Items:    cat.Len(),
		Width:    cat.Width(),
		Genres:   len(cat.UniqueGenres()),
		Clusters: cat.Clusters(),
	}

	if humanOutput {
		fmt.Printf("Titles:   %d\n", result.Items)
		fmt.Printf("Features: %d\n", result.Width)
		fmt.Printf("Genres:   %d\n", result.Genres)
		fmt.Printf("Clusters: %d\n", len(result.Clusters))
		for _, cs := range result.Clusters {
			fmt.Printf("  %4d  %d titles\n", cs.Cluster, cs.Size)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
