package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the resume_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_agent ./cmd/resume_agent'", binaryPath)
	}

	return binaryPath
}

// writeTempFile writes content to name inside a fresh temp directory
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

const testPortfolio = `
name: Jane Doe
email: jane@example.com
experience:
  - company: Acme
    role: Backend Engineer
    start_date: Jan 2023
    end_date: Present
    technologies: [Go, PostgreSQL]
    bullets:
      - Built a payments API in Go
      - Worked on reducing latency of the checkout service
education:
  - institution: State University
    degree: BS Computer Science
`
