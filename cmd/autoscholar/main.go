// Package main provides the autoscholar CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "autoscholar",
	Short: "Generate a publications page from a Google Scholar profile",
	Long: `autoscholar builds a publications HTML page from a Google Scholar
profile. It fetches the full publication list, splits it into journal and
conference sections sorted newest first, and renders each entry with a
copyable BibTeX snippet.

Commands output JSON by default for easy integration with AI agents and
other tools; pass --human for terminal-friendly output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
