// Package cli defines the tandem command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "tandem",
	Short: "Two-role AI coding agent service",
	Long: `Tandem turns a human request into source-file edits through two
cooperating roles: a planner that breaks the request into subtasks and an
executor that carries them out with tools. Runs stream live over HTTP and
checkpoint for recovery.

Quick start:
  tandem serve                 # start the HTTP service
  tandem serve --config t.yaml # with a config file`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
