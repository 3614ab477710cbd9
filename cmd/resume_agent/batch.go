package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/experience"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Optimize one portfolio for several roles concurrently",
	Long: `Runs one independent optimization per role. Each run keeps its own verb
ledger, so results match running optimize once per role.`,
	RunE: runBatch,
}

var (
	batchPortfolio string
	batchRoles     []string
	batchOutDir    string
	batchRun       runOptions
)

func init() {
	batchCmd.Flags().StringVarP(&batchPortfolio, "portfolio", "p", "", "Path to portfolio YAML or JSON file (required)")
	batchCmd.Flags().StringSliceVar(&batchRoles, "roles", nil, "Comma-separated target roles (required)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory to write one document per role (optional)")
	batchRun.register(batchCmd)

	_ = batchCmd.MarkFlagRequired("portfolio")
	_ = batchCmd.MarkFlagRequired("roles")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	runner, cleanup, err := batchRun.buildRunner(ctx, cmd, logProgress)
	if err != nil {
		return err
	}
	defer cleanup()

	load, err := experience.LoadPortfolio(batchPortfolio)
	if err != nil {
		return err
	}

	results, err := runner.RunBatch(ctx, load, batchRoles)
	if err != nil {
		return err
	}

	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	names := batchFileNames(results, batchRun.format)
	for i, result := range results {
		fmt.Fprintf(os.Stdout, "%-30s %5.1f / 100  (%s)  run %s\n", result.Role, result.Score.Total, result.Score.Grade, result.RunID)
		if batchOutDir == "" {
			continue
		}
		path := filepath.Join(batchOutDir, names[i])
		if err := writeOutput(path, []byte(result.Document)); err != nil {
			return err
		}
	}
	return nil
}

// batchFileNames picks one output file per result. Roles that normalize to
// the same name get the first eight characters of their run ID appended.
func batchFileNames(results []*types.RunResult, format string) []string {
	names := make([]string, len(results))
	used := make(map[string]bool, len(results))
	for i, result := range results {
		name := outputFileName(result.Role, format)
		if used[name] {
			ext := filepath.Ext(name)
			suffix := result.RunID
			if len(suffix) > 8 {
				suffix = suffix[:8]
			}
			base := strings.TrimSuffix(name, ext) + "_" + suffix
			name = base + ext
			for n := 2; used[name]; n++ {
				name = fmt.Sprintf("%s_%d%s", base, n, ext)
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// outputFileName turns a role into a file name such as backend_engineer.tex
func outputFileName(role, format string) string {
	ext := ".tex"
	if format == pipeline.FormatMarkdown {
		ext = ".md"
	}
	name := strings.Join(strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "_")
	if name == "" {
		name = "resume"
	}
	return name + ext
}
