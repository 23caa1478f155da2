// Package main implements the isnad CLI for grading evidence and
// running adjudications.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version information
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "isnad",
	Short: "Evidentiary trust and debate adjudication engine",
	Long: `isnad grades deal claims by the strength of their evidence chains and
orchestrates validated multi-agent analysis runs over them.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(adjudicateCmd)
	rootCmd.AddCommand(serveCmd)
}
