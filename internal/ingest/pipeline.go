package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/datapigeon/fixity/internal/models"
)

// Embedder produces embedding vectors for chunk content.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkWriter stores embedded chunks in the corpus.
type ChunkWriter interface {
	QueryInsertChunk(ctx context.Context, chunk models.ManualChunk, embedding []float32) error
}

// Stats summarizes one ingestion run.
type Stats struct {
	Files  int
	Chunks int
}

// Pipeline ingests a directory of manual markdown files.
type Pipeline struct {
	embedder Embedder
	writer   ChunkWriter
	cfg      ChunkConfig
	logger   *slog.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(embedder Embedder, writer ChunkWriter, cfg ChunkConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{embedder: embedder, writer: writer, cfg: cfg, logger: logger}
}

// Run ingests every .md file under dir. Files that fail to parse abort the
// run; a half-ingested corpus with missing model scoping is worse than none.
func (p *Pipeline) Run(ctx context.Context, dir string) (Stats, error) {
	var stats Stats

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		n, err := p.ingestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		stats.Files++
		stats.Chunks += n
		return nil
	})
	if err != nil {
		return stats, err
	}

	p.logger.Info("ingestion complete", "dir", dir, "files", stats.Files, "chunks", stats.Chunks)
	return stats, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	doc, err := ParseManual(string(data))
	if err != nil {
		return 0, err
	}

	chunks := ChunkSections(doc.Sections, p.cfg)
	if len(chunks) == 0 {
		p.logger.Warn("manual has no content", "path", path)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	for i, c := range chunks {
		chunk := models.ManualChunk{
			Content:      c.Content,
			ChargerModel: doc.Meta.ChargerModel,
			Component:    doc.Meta.Component,
			Source:       doc.Meta.Source,
			Section:      c.Section,
		}
		if err := p.writer.QueryInsertChunk(ctx, chunk, embeddings[i]); err != nil {
			return 0, fmt.Errorf("store chunk %d: %w", i, err)
		}
	}

	p.logger.Debug("manual ingested",
		"path", path, "model", doc.Meta.ChargerModel, "chunks", len(chunks))
	return len(chunks), nil
}
