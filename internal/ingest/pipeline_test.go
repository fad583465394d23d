package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapigeon/fixity/internal/models"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeWriter struct {
	chunks []models.ManualChunk
}

func (f *fakeWriter) QueryInsertChunk(_ context.Context, chunk models.ManualChunk, _ []float32) error {
	f.chunks = append(f.chunks, chunk)
	return nil
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terra.md"), []byte(sampleManual), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a manual"), 0o644))

	embedder := &fakeEmbedder{}
	writer := &fakeWriter{}
	p := NewPipeline(embedder, writer, DefaultChunkConfig(), nil)

	stats, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Files, "non-markdown files are skipped")
	assert.Equal(t, len(writer.chunks), stats.Chunks)
	assert.Equal(t, 1, embedder.calls, "one batch per file")

	require.NotEmpty(t, writer.chunks)
	for _, c := range writer.chunks {
		assert.Equal(t, "ABB_Terra_54", c.ChargerModel)
		assert.Equal(t, "ABB Terra 54 Service Manual Rev 1.4", c.Source)
		assert.NotEmpty(t, c.Section)
		assert.NotEmpty(t, c.Content)
	}
}

func TestPipelineRunAbortsOnBadManual(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte("# no frontmatter"), 0o644))

	p := NewPipeline(&fakeEmbedder{}, &fakeWriter{}, DefaultChunkConfig(), nil)
	_, err := p.Run(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.md")
}
