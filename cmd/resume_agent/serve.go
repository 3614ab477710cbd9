package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/server"
)

var (
	servePort  int
	serveDBURL string
	serveLLM   llmFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for optimizing and scoring resumes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to server.port)")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveLLM.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := *appCfg
	cfg.LLM = serveLLM.apply(cmd, cfg.LLM)
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDBURL
	}

	rewriter, closeRewriter, err := pipeline.NewRewriter(ctx, cfg.LLM, appLog)
	if err != nil {
		return err
	}
	defer func() { _ = closeRewriter() }()

	opts := pipeline.OptionsFromConfig(&cfg)
	opts.Rewriter = rewriter

	srvCfg := server.Config{
		Port:      cfg.Server.Port,
		Pipeline:  opts,
		Logger:    appLog,
		RateLimit: cfg.Server.RateLimit,
	}

	// Persistence is optional; without a database GET /runs/{id} answers 503
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		srvCfg.Store = database
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
