// Package retrieval turns ticket facts and technician questions into
// manual corpus lookups.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/datapigeon/fixity/internal/metrics"
	"github.com/datapigeon/fixity/internal/models"
)

// Embedder produces embedding vectors for retrieval queries.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher performs hybrid search over the manual corpus.
type Searcher interface {
	QueryHybridSearch(ctx context.Context, query string, embedding []float32, chargerModel string, limit int) ([]models.ManualChunk, error)
}

// Gateway embeds a query and searches the corpus, scoped to one charger
// model. Empty result sets are not errors; generation proceeds without
// manual context.
type Gateway struct {
	embedder  Embedder
	searcher  Searcher
	collector *metrics.Collector
	logger    *slog.Logger
}

// New creates a retrieval gateway. The collector may be nil.
func New(embedder Embedder, searcher Searcher, collector *metrics.Collector, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{embedder: embedder, searcher: searcher, collector: collector, logger: logger}
}

// Retrieve returns up to k manual excerpts relevant to the query, restricted
// to the given charger model when non-empty.
func (g *Gateway) Retrieve(ctx context.Context, query, chargerModel string, k int) ([]models.ManualExcerpt, error) {
	start := time.Now()

	embedding, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	searchStart := time.Now()
	chunks, err := g.searcher.QueryHybridSearch(ctx, query, embedding, chargerModel, k)
	g.collector.RecordTiming(metrics.OpDBSearch, time.Since(searchStart))
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}

	excerpts := make([]models.ManualExcerpt, 0, len(chunks))
	for _, c := range chunks {
		excerpts = append(excerpts, models.ManualExcerpt{
			Text:         c.Content,
			Source:       c.Source,
			Section:      c.Section,
			ChargerModel: c.ChargerModel,
		})
	}

	g.collector.RecordTiming(metrics.OpRetrieval, time.Since(start))
	g.logger.Debug("retrieval complete",
		"query_len", len(query), "model", chargerModel, "k", k, "hits", len(excerpts))
	return excerpts, nil
}

// ChecklistQuery builds the fixed retrieval query for checklist generation.
// It uses structured ticket facts only, never free-form telemetry prose.
func ChecklistQuery(t models.Ticket) string {
	return fmt.Sprintf("%s %s repair procedure for error %s",
		t.StationInfo.Model,
		t.PredictionDetails.FailingComponent,
		t.PredictionDetails.ExpectedErrorCode,
	)
}

// ChatQuery builds the retrieval query for a chat turn. When the technician
// is focused on a checklist step, the step's task text is prepended so
// terse follow-ups like "how do I test this?" retrieve well.
func ChatQuery(message, stepTask string) string {
	if stepTask == "" {
		return message
	}
	return stepTask + ": " + message
}
