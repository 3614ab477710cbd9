package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/types"
)

func withConfigFile(t *testing.T, path string) {
	t.Helper()
	prevFile, prevCfg, prevLog := cfgFile, appCfg, appLog
	cfgFile = path
	t.Cleanup(func() {
		cfgFile, appCfg, appLog = prevFile, prevCfg, prevLog
	})
}

func TestInitRuntime_LoadsConfigFile(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "optimizer:\n  max_experiences: 5\nllm:\n  rewriter: template\n")
	withConfigFile(t, path)

	require.NoError(t, initRuntime(rootCmd, nil))
	require.NotNil(t, appCfg)
	assert.Equal(t, 5, appCfg.Optimizer.MaxExperiences)
	assert.Equal(t, "template", appCfg.LLM.Rewriter)
	assert.Equal(t, config.DefaultOptimizer().OveruseThreshold, appCfg.Optimizer.OveruseThreshold)
	assert.NotNil(t, appLog)
}

func TestJobdescOptions_FollowFetchConfig(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "fetch:\n  use_browser: true\n  browser_timeout: 10s\n")
	withConfigFile(t, path)

	require.NoError(t, initRuntime(rootCmd, nil))
	opts := jobdescOptions()
	assert.True(t, opts.UseBrowser)
	assert.Equal(t, 10*time.Second, opts.BrowserTimeout)
	assert.Same(t, appLog, opts.Logger)
}

func TestInitRuntime_InvalidConfig(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "optimizer:\n  overuse_threshold: 0\n")
	withConfigFile(t, path)

	err := initRuntime(rootCmd, nil)
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "optimizer.overuse_threshold", cfgErr.Field)
}

func TestInitRuntime_MissingConfigFile(t *testing.T) {
	withConfigFile(t, filepath.Join(t.TempDir(), "missing.yaml"))

	err := initRuntime(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLLMFlags_ApplyOnlyChangedFlags(t *testing.T) {
	base := config.LLMConfig{Rewriter: "auto", APIKey: "from-env"}

	t.Run("no flags set", func(t *testing.T) {
		var f llmFlags
		cmd := &cobra.Command{Use: "test"}
		f.register(cmd)

		assert.Equal(t, base, f.apply(cmd, base))
	})

	t.Run("rewriter set", func(t *testing.T) {
		var f llmFlags
		cmd := &cobra.Command{Use: "test"}
		f.register(cmd)
		require.NoError(t, cmd.Flags().Set("rewriter", "identity"))

		got := f.apply(cmd, base)
		assert.Equal(t, "identity", got.Rewriter)
		assert.Equal(t, "from-env", got.APIKey)
	})

	t.Run("empty api key overrides", func(t *testing.T) {
		var f llmFlags
		cmd := &cobra.Command{Use: "test"}
		f.register(cmd)
		require.NoError(t, cmd.Flags().Set("api-key", ""))

		got := f.apply(cmd, base)
		assert.Equal(t, "", got.APIKey)
	})
}

func TestResolveRole_TrimsGivenRole(t *testing.T) {
	got, err := resolveRole("  backend engineer ")
	require.NoError(t, err)
	assert.Equal(t, "backend engineer", got)
}

func TestWriteOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.tex")
	require.NoError(t, writeOutput(path, []byte("content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	err = writeOutput(filepath.Join(t.TempDir(), "missing", "resume.tex"), []byte("x"))
	assert.Error(t, err)
}

func TestRenderResult(t *testing.T) {
	result := &types.RunResult{RunID: "run-1", Role: "backend engineer", Document: "\\section{Experience}"}

	doc, err := renderResult(result, false)
	require.NoError(t, err)
	assert.Equal(t, "\\section{Experience}", string(doc))

	data, err := renderResult(result, true)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)
	assert.Contains(t, string(data), `"role": "backend engineer"`)
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		role   string
		format string
		want   string
	}{
		{"backend engineer", "latex", "backend_engineer.tex"},
		{"Data Engineer", "markdown", "data_engineer.md"},
		{"ML/AI engineer", "", "ml_ai_engineer.tex"},
		{"  ", "latex", "resume.tex"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, outputFileName(tt.role, tt.format))
		})
	}
}

func TestBatchFileNames_DeduplicatesRoles(t *testing.T) {
	results := []*types.RunResult{
		{Role: "Data Engineer", RunID: "11111111-aaaa-4bbb-8ccc-000000000001"},
		{Role: "data-engineer", RunID: "22222222-aaaa-4bbb-8ccc-000000000002"},
		{Role: "Backend Engineer", RunID: "33333333-aaaa-4bbb-8ccc-000000000003"},
		{Role: "DATA ENGINEER", RunID: "22222222-ffff-4bbb-8ccc-000000000004"},
	}

	names := batchFileNames(results, "markdown")
	assert.Equal(t, []string{
		"data_engineer.md",
		"data_engineer_22222222.md",
		"backend_engineer.md",
		"data_engineer_22222222_2.md",
	}, names)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"optimize", "score", "build-profile", "batch", "serve"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
