package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/jobdesc"
	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
)

var (
	cfgFile  string
	settings = viper.New()

	// Set by initRuntime before any subcommand runs
	appCfg *config.Config
	appLog = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Verbose/debug logging")
	rootCmd.PersistentFlags().Bool("json-logs", false, "JSON format for logging")
	rootCmd.PersistentFlags().Bool("use-browser", false, "Render job posting URLs in headless Chrome when the static page has too little text")

	_ = settings.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = settings.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json-logs"))
	_ = settings.BindPFlag("fetch.use_browser", rootCmd.PersistentFlags().Lookup("use-browser"))
}

// initRuntime loads and validates configuration and builds the logger. A bad
// configuration stops the command before any portfolio is read.
func initRuntime(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(settings, cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	appCfg = cfg
	appLog = l
	return nil
}

// llmFlags are the LLM overrides shared by the commands that rewrite bullets
type llmFlags struct {
	rewriter string
	apiKey   string
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rewriter, "rewriter", "", "Rewriter mode: auto, gemini, template or identity (defaults to llm.rewriter)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
}

// apply overrides cfg with the flags that were explicitly set
func (f *llmFlags) apply(cmd *cobra.Command, cfg config.LLMConfig) config.LLMConfig {
	if cmd.Flags().Changed("rewriter") {
		cfg.Rewriter = f.rewriter
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	return cfg
}

// runOptions are the pipeline options shared by optimize and batch
type runOptions struct {
	llm            llmFlags
	format         string
	template       string
	jobDescription string
	dbURL          string
}

func (o *runOptions) register(cmd *cobra.Command) {
	o.llm.register(cmd)
	cmd.Flags().StringVarP(&o.format, "format", "f", pipeline.FormatLaTeX, "Output format: latex or markdown")
	cmd.Flags().StringVarP(&o.template, "template", "t", "", "Path to a custom LaTeX template (uses << >> delimiters)")
	cmd.Flags().StringVarP(&o.jobDescription, "job-description", "j", "", "Path or URL of a job description used to enrich the keyword profile")
	cmd.Flags().StringVar(&o.dbURL, "db-url", "", "PostgreSQL connection URL for run persistence (optional, defaults to DATABASE_URL env var)")
}

// buildRunner assembles a pipeline runner for cmd. The returned cleanup
// releases the LLM client and database connection and is never nil.
func (o *runOptions) buildRunner(ctx context.Context, cmd *cobra.Command, onProgress pipeline.ProgressCallback) (*pipeline.Runner, func(), error) {
	cfg := *appCfg
	cfg.LLM = o.llm.apply(cmd, cfg.LLM)
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = o.dbURL
	}

	opts := pipeline.OptionsFromConfig(&cfg)
	opts.Logger = appLog
	opts.Format = o.format
	opts.TemplatePath = o.template
	opts.OnProgress = onProgress

	jd, err := jobdesc.Load(ctx, o.jobDescription, jobdescOptions())
	if err != nil {
		return nil, func() {}, err
	}
	opts.JobDescription = jd

	// Validate the run settings before opening any connection
	if _, err := pipeline.NewRunner(opts); err != nil {
		return nil, func() {}, err
	}

	rewriter, closeRewriter, err := pipeline.NewRewriter(ctx, cfg.LLM, appLog)
	if err != nil {
		return nil, func() {}, err
	}
	opts.Rewriter = rewriter

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = closeRewriter()
			return nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			_ = closeRewriter()
			return nil, func() {}, err
		}
		opts.Store = database
	}

	cleanup := func() {
		if database != nil {
			database.Close()
		}
		if err := closeRewriter(); err != nil {
			appLog.Debug("failed to close LLM client", zap.Error(err))
		}
	}

	runner, err := pipeline.NewRunner(opts)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return runner, cleanup, nil
}

// jobdescOptions builds fetch options from the loaded configuration
func jobdescOptions() *jobdesc.Options {
	return &jobdesc.Options{
		Logger:         appLog,
		UseBrowser:     appCfg.Fetch.UseBrowser,
		BrowserTimeout: appCfg.Fetch.BrowserTimeout,
	}
}

// logProgress reports pipeline steps through the logger
func logProgress(event pipeline.ProgressEvent) {
	appLog.Info(event.Message,
		zap.String("step", event.Step),
		zap.String(logger.FieldRole, event.Role),
		zap.String(logger.FieldRunID, event.RunID))
}

// resolveRole returns role, or asks for one of the known roles when it is empty
func resolveRole(role string) (string, error) {
	if strings.TrimSpace(role) != "" {
		return strings.TrimSpace(role), nil
	}

	prompt := promptui.Select{
		Label: "Choose a target role",
		Items: keywords.KnownRoles(),
	}
	_, selected, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("--role is required: %w", err)
	}
	return selected, nil
}

// writeOutput writes content to path, or to stdout when path is empty
func writeOutput(path string, content []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
