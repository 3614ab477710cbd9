package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/jobdesc"
	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <document>",
	Short: "Score an existing LaTeX, Markdown or HTML resume",
	Long: `Scores a rendered resume out of 100 across content quality, ATS format,
keyword optimization and technical depth. Keywords are measured against the
profile for --role, or a generic profile when no role is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreRole           string
	scoreJobDescription string
	scoreJSON           bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreRole, "role", "r", "", "Target role for keyword scoring (optional)")
	scoreCmd.Flags().StringVarP(&scoreJobDescription, "job-description", "j", "", "Path or URL of a job description (optional)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the score breakdown as JSON")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	scorer, err := scoring.NewScorer(scoring.Options{
		QuantificationTarget: appCfg.Scoring.QuantificationTarget,
		MinDistinctVerbs:     appCfg.Scoring.MinDistinctVerbs,
		Grades:               appCfg.Scoring.Grades,
	})
	if err != nil {
		return err
	}

	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	jd, err := jobdesc.Load(cmd.Context(), scoreJobDescription, jobdescOptions())
	if err != nil {
		return err
	}

	profile := keywords.BuildProfileWithDescription(scoreRole, jd)
	score, err := scorer.Score(string(document), nil, profile, nil)
	if err != nil {
		return err
	}

	if scoreJSON {
		data, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal score: %w", err)
		}
		return writeOutput("", append(data, '\n'))
	}

	observability.NewPrinter(os.Stdout).PrintScore(&score)
	return nil
}
