package main

import (
	"fmt"

	"github.com/otakulab/anirec/internal/config"
	"github.com/otakulab/anirec/internal/session"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:       "clear [similar|genre]",
	Short:     "Forget stored recommendations",
	Long:      `Clear the stored results of one tab, or of both tabs when none is given.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: session.Tabs,
	RunE:      runClear,
}

// ClearResult is the response for the clear command.
type ClearResult struct {
	Status  string   `json:"status"`
	Cleared []string `json:"cleared"`
}

func runClear(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	tabs := session.Tabs
	if len(args) == 1 {
		tabs = args
	}

	path := config.SessionPath(repoRoot)
	state := session.Read(path)
	for _, tab := range tabs {
		if err := state.Clear(tab); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}
	if err := session.Write(path, state); err != nil {
		exitWithError(ExitError, "saving session: %v", err)
	}

	if humanOutput {
		fmt.Printf("Cleared %s\n", formatList(tabs))
	} else {
		outputJSON(ClearResult{Status: "cleared", Cleared: tabs})
	}
	return nil
}
