package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanadworks/isnad/internal/grading"
)

// gradeCmd assesses a single claim's evidence from a JSON description.
var gradeCmd = &cobra.Command{
	Use:   "grade [file]",
	Short: "Grade one claim's evidence from a JSON input",
	Long: `Grade reads a JSON grading input and prints the full assessment:
tier, precision score, letter grade, verdict, action and corroboration.

The input file holds a grading.Input document:

  {
    "source": {"source_type": "audited_financials"},
    "materiality": "HIGH",
    "dimensions": {"documentation": 0.9, "transmission": 0.85, "temporal": 0.8},
    "corroborators": 1
  }

Examples:
  # Grade from a file
  isnad grade claim.json

  # Grade from stdin
  cat claim.json | isnad grade -`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func runGrade(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	var in grading.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse grading input: %w", err)
	}

	assessment, err := grading.Assess(in)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(assessment)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
