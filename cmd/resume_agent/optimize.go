package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/experience"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a portfolio for a target role and score the result",
	Long: `Loads a YAML or JSON portfolio, rewrites the bullets of the most recent
experiences for the target role, renders the resume and scores it.

When --role is omitted an interactive prompt lists the known roles.`,
	RunE: runOptimize,
}

var (
	optimizePortfolio string
	optimizeRole      string
	optimizeOutput    string
	optimizeJSON      bool
	optimizeVerbose   bool
	optimizeRun       runOptions
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizePortfolio, "portfolio", "p", "", "Path to portfolio YAML or JSON file (required)")
	optimizeCmd.Flags().StringVarP(&optimizeRole, "role", "r", "", "Target role, e.g. \"backend engineer\"")
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "Path to output file (defaults to stdout)")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "Write the full run result as JSON instead of the document")
	optimizeCmd.Flags().BoolVarP(&optimizeVerbose, "verbose", "v", false, "Print profile, changes and score breakdown to stderr")
	optimizeRun.register(optimizeCmd)

	_ = optimizeCmd.MarkFlagRequired("portfolio")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var onProgress pipeline.ProgressCallback
	if optimizeVerbose {
		onProgress = logProgress
	}
	runner, cleanup, err := optimizeRun.buildRunner(ctx, cmd, onProgress)
	if err != nil {
		return err
	}
	defer cleanup()

	load, err := experience.LoadPortfolio(optimizePortfolio)
	if err != nil {
		return err
	}
	role, err := resolveRole(optimizeRole)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx, load, role)
	if err != nil {
		return err
	}
	appLog.Debug("run finished", zap.String(logger.FieldRunID, result.RunID), zap.Float64("total", result.Score.Total))

	printer := observability.NewPrinter(os.Stderr)
	if optimizeVerbose {
		printRunReport(printer, result)
	} else {
		fmt.Fprintf(os.Stderr, "Score: %.1f / 100 (%s)\n", result.Score.Total, result.Score.Grade)
	}

	out, err := renderResult(result, optimizeJSON)
	if err != nil {
		return err
	}
	return writeOutput(optimizeOutput, out)
}

// printRunReport prints every report box for one run
func printRunReport(printer *observability.Printer, result *types.RunResult) {
	printer.PrintRejected(result.Summary.Rejected)
	printer.PrintProfile(&result.Profile)
	printer.PrintSummary(&result.Summary)
	printer.PrintBulletChanges(&result.Summary)
	printer.PrintScore(&result.Score)
}

// renderResult returns the document, or the indented JSON result when asJSON is set
func renderResult(result *types.RunResult, asJSON bool) ([]byte, error) {
	if !asJSON {
		return []byte(result.Document), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run result: %w", err)
	}
	return append(data, '\n'), nil
}
