// Package main provides the resume_agent CLI for optimizing and scoring resumes.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume content optimizer and scorer",
	Long: `resume_agent rewrites portfolio bullets for a target role (stronger verbs,
quantified outcomes, role keywords), renders the result as LaTeX or Markdown
and scores it out of 100.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
