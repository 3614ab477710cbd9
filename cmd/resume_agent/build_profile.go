package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/jobdesc"
	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/observability"
)

var buildProfileCmd = &cobra.Command{
	Use:   "build-profile",
	Short: "Show the keyword profile for a target role",
	Long:  "Resolves a role to its keyword template, optionally enriched with technologies from a job description.",
	RunE:  runBuildProfile,
}

var (
	buildProfileRole           string
	buildProfileJobDescription string
	buildProfileOutput         string
	buildProfileJSON           bool
)

func init() {
	buildProfileCmd.Flags().StringVarP(&buildProfileRole, "role", "r", "", "Target role")
	buildProfileCmd.Flags().StringVarP(&buildProfileJobDescription, "job-description", "j", "", "Path or URL of a job description (optional)")
	buildProfileCmd.Flags().StringVarP(&buildProfileOutput, "output", "o", "", "Path to output JSON file (implies --json)")
	buildProfileCmd.Flags().BoolVar(&buildProfileJSON, "json", false, "Print the profile as JSON")

	rootCmd.AddCommand(buildProfileCmd)
}

func runBuildProfile(cmd *cobra.Command, _ []string) error {
	role, err := resolveRole(buildProfileRole)
	if err != nil {
		return err
	}
	jd, err := jobdesc.Load(cmd.Context(), buildProfileJobDescription, jobdescOptions())
	if err != nil {
		return err
	}

	profile := keywords.BuildProfileWithDescription(role, jd)

	if buildProfileJSON || buildProfileOutput != "" {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		return writeOutput(buildProfileOutput, append(data, '\n'))
	}

	observability.NewPrinter(os.Stdout).PrintProfile(profile)
	return nil
}
