package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datapigeon/fixity/internal/config"
	"github.com/datapigeon/fixity/internal/db"
	"github.com/datapigeon/fixity/internal/ingest"
	"github.com/datapigeon/fixity/internal/llm"
)

var (
	ingestDir  string
	ingestWipe bool
)

// ingestCmd talks straight to the corpus DB and the embedding backend, so
// manuals can be loaded before any server is running.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest repair manual markdown files into the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Load()
		if ingestDir == "" {
			ingestDir = cfg.ManualsDir
		}

		dbClient, err := db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, nil)
		if err != nil {
			return fmt.Errorf("connect to corpus db: %w", err)
		}
		defer func() { _ = dbClient.Close(context.Background()) }()

		if err := dbClient.InitSchema(ctx, cfg.EmbedDimension); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
		if ingestWipe {
			if err := dbClient.WipeData(ctx); err != nil {
				return fmt.Errorf("wipe corpus: %w", err)
			}
			fmt.Println("Corpus wiped.")
		}

		embedder, err := llm.NewEmbedder(cfg, nil)
		if err != nil {
			return fmt.Errorf("create embedder: %w", err)
		}

		pipeline := ingest.NewPipeline(embedder, dbClient, ingest.DefaultChunkConfig(), nil)
		stats, err := pipeline.Run(ctx, ingestDir)
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %d manuals (%d chunks) from %s\n", stats.Files, stats.Chunks, ingestDir)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "manuals directory (default FIXITY_MANUALS_DIR)")
	ingestCmd.Flags().BoolVar(&ingestWipe, "wipe", false, "clear the corpus before ingesting")
	rootCmd.AddCommand(ingestCmd)
}
