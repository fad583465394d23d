// Package main provides the Fixity copilot server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datapigeon/fixity/internal/checklist"
	"github.com/datapigeon/fixity/internal/config"
	"github.com/datapigeon/fixity/internal/copilot"
	"github.com/datapigeon/fixity/internal/db"
	"github.com/datapigeon/fixity/internal/llm"
	"github.com/datapigeon/fixity/internal/metrics"
	"github.com/datapigeon/fixity/internal/retrieval"
	"github.com/datapigeon/fixity/internal/server"
	"github.com/datapigeon/fixity/internal/store"
)

func main() {
	degraded := flag.Bool("no-rag", false, "start without the retrieval pipeline (tickets only)")
	flag.Parse()

	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()
	slog.SetDefault(logger)

	seeds, err := store.LoadAlerts(cfg.AlertsFile)
	if err != nil {
		logger.Error("failed to load alert feed", "file", cfg.AlertsFile, "error", err)
		os.Exit(1)
	}
	st := store.New(seeds)
	logger.Info("alert feed loaded", "file", cfg.AlertsFile, "tickets", len(seeds))

	collector := metrics.NewCollector()

	var gateway *retrieval.Gateway
	var generator *llm.Model
	if !*degraded {
		gateway, generator = buildPipeline(cfg, collector, logger)
	}

	// Without a pipeline, checklist generation and chat return
	// NotInitialized while the ticket queue keeps working.
	var engine *checklist.Engine
	var orchestrator *copilot.Orchestrator
	if gateway != nil && generator != nil {
		engine = checklist.NewEngine(st, gateway, generator, cfg.RetrievalK, logger)
		orchestrator = copilot.NewOrchestrator(st, gateway, generator, engine, cfg.RetrievalK, logger)
	} else {
		engine = checklist.NewEngine(st, nil, nil, cfg.RetrievalK, logger)
		orchestrator = copilot.NewOrchestrator(st, nil, nil, engine, cfg.RetrievalK, logger)
	}

	srv := server.New(st, engine, orchestrator, collector, cfg.AdminKey, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, ":"+cfg.ServerPort); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildPipeline wires the corpus DB, embedder, and LLM. Failures are not
// fatal: the server starts degraded and the pipeline stays off.
func buildPipeline(cfg config.Config, collector *metrics.Collector, logger *slog.Logger) (*retrieval.Gateway, *llm.Model) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		logger.Error("corpus db unavailable, starting degraded", "error", err)
		return nil, nil
	}
	if err := dbClient.InitSchema(ctx, cfg.EmbedDimension); err != nil {
		logger.Error("schema init failed, starting degraded", "error", err)
		return nil, nil
	}

	embedder, err := llm.NewEmbedder(cfg, collector)
	if err != nil {
		logger.Error("embedder unavailable, starting degraded", "error", err)
		return nil, nil
	}

	model, err := llm.NewModel(ctx, cfg, collector)
	if err != nil {
		logger.Error("llm unavailable, starting degraded", "error", err)
		return nil, nil
	}

	logger.Info("rag pipeline ready",
		"llm_provider", cfg.LLMProvider, "embed_model", cfg.EmbedModel, "k", cfg.RetrievalK)
	return retrieval.New(embedder, dbClient, collector, logger), model
}
