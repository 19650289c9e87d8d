package main

import (
	"fmt"

	"github.com/otakulab/anirec/internal/anime"
	"github.com/otakulab/anirec/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify catalog integrity",
	Long: `Verify that the catalog loads and report soft issues.

Load failures (malformed rows, duplicate titles, inconsistent feature width)
exit with a data error. Titles that cannot be recommended from are reported
as issues without failing the check.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string       `json:"status"`
	Items    int          `json:"items"`
	Width    int          `json:"width"`
	Clusters int          `json:"clusters"`
	Genres   int          `json:"genres"`
	Issues   []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Cluster *int   `json:"cluster,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	cat, err := catalog.Load(catalogFile(repoRoot, cfg, catalogOverride), cfg.FeatureWidth)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	result := CheckResult{
		Status:   "ok",
		Items:    cat.Len(),
		Width:    cat.Width(),
		Clusters: len(cat.Clusters()),
		Genres:   len(cat.UniqueGenres()),
		Issues:   findIssues(cat),
	}
	if len(result.Issues) > 0 {
		result.Status = "issues"
	}

	if humanOutput {
		fmt.Printf("Catalog: %d titles, %d features, %d clusters, %d genres\n",
			result.Items, result.Width, result.Clusters, result.Genres)
		if len(result.Issues) == 0 {
			fmt.Println("No issues found")
		}
		for _, issue := range result.Issues {
			fmt.Printf("  %s: %s (%s)\n", issue.Type, issue.Name, issue.Reason)
		}
	} else {
		outputJSON(result)
	}

	return nil
}

// findIssues reports rows that load but rank poorly or not at all.
func findIssues(cat *catalog.Catalog) []CheckIssue {
	issues := []CheckIssue{}

	for _, cs := range cat.Clusters() {
		if cs.Size == 1 {
			members := cat.ItemsInCluster(cs.Cluster)
			cluster := cs.Cluster
			issues = append(issues, CheckIssue{
				Type:    "singleton_cluster",
				Name:    members[0].Name,
				Cluster: &cluster,
				Reason:  "no other title shares its cluster",
			})
		}
	}

	for _, it := range cat.Items() {
		if isZeroVector(it.Features) {
			issues = append(issues, CheckIssue{
				Type:   "zero_features",
				Name:   it.Name,
				Reason: "similarity to every title is 0",
			})
		}
		if len(it.VisibleGenres()) == 0 {
			issues = append(issues, CheckIssue{
				Type:   "no_genres",
				Name:   it.Name,
				Reason: fmt.Sprintf("only %q or no genres", anime.UnknownGenre),
			})
		}
	}

	return issues
}

func isZeroVector(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
