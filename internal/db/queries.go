package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/datapigeon/fixity/internal/models"
)

// QueryHybridSearch performs RRF fusion of BM25 + vector search over the
// manual corpus. When chargerModel is non-empty, results are restricted to
// chunks ingested for that model.
func (c *Client) QueryHybridSearch(
	ctx context.Context,
	query string,
	embedding []float32,
	chargerModel string,
	limit int,
) ([]models.ManualChunk, error) {
	modelClause := ""
	if chargerModel != "" {
		modelClause = "AND charger_model = $model"
	}

	// Vector arm fetches 2x limit with ef=40 for recall; RRF k=60.
	sql := fmt.Sprintf(`
		SELECT * FROM search::rrf([
			(SELECT id, content, charger_model, component, source, section
			 FROM manual_chunk
			 WHERE embedding <|%d,40|> $emb %s),
			(SELECT id, content, charger_model, component, source, section
			 FROM manual_chunk
			 WHERE content @0@ $q %s)
		], $limit, 60)
	`, limit*2, modelClause, modelClause)

	vars := map[string]any{
		"q":     query,
		"emb":   embedding,
		"limit": limit,
	}
	if chargerModel != "" {
		vars["model"] = chargerModel
	}

	results, err := surrealdb.Query[[]models.ManualChunk](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.ManualChunk{}, nil
}

// QueryInsertChunk stores one embedded manual chunk.
func (c *Client) QueryInsertChunk(
	ctx context.Context,
	chunk models.ManualChunk,
	embedding []float32,
) error {
	sql := `
		CREATE manual_chunk CONTENT {
			content: $content,
			charger_model: $model,
			component: $component,
			source: $source,
			section: $section,
			embedding: $embedding
		}
	`

	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"content":   chunk.Content,
		"model":     chunk.ChargerModel,
		"component": chunk.Component,
		"source":    chunk.Source,
		"section":   chunk.Section,
		"embedding": embedding,
	})
	if err != nil {
		return fmt.Errorf("insert chunk: %w", err)
	}
	return nil
}

// QueryCountChunks returns the number of stored manual chunks.
func (c *Client) QueryCountChunks(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `SELECT count() AS count FROM manual_chunk GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}
