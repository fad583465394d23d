package ingest

import "strings"

// Chunk is one embeddable piece of a manual section.
type Chunk struct {
	Content string
	Section string
}

// ChunkConfig defines chunking parameters.
type ChunkConfig struct {
	// TargetSize: ideal chunk size in characters.
	TargetSize int
	// Overlap: character overlap carried from the previous chunk.
	Overlap int
}

// DefaultChunkConfig returns the corpus defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		TargetSize: 1000,
		Overlap:    200,
	}
}

// ChunkSections splits each section into chunks near the target size,
// breaking at paragraph boundaries. Adjacent chunks of the same section
// share an overlap so procedures spanning a boundary stay retrievable.
func ChunkSections(sections []Section, cfg ChunkConfig) []Chunk {
	var chunks []Chunk
	for _, section := range sections {
		for _, content := range splitContent(section.Content, cfg) {
			chunks = append(chunks, Chunk{
				Content: content,
				Section: sectionLabel(section),
			})
		}
	}
	return chunks
}

func sectionLabel(s Section) string {
	if s.Path != "" {
		return s.Path
	}
	return "Introduction"
}

// splitContent accumulates paragraphs up to the target size, then applies
// word-boundary overlap between consecutive pieces.
func splitContent(content string, cfg ChunkConfig) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= cfg.TargetSize {
		return []string{content}
	}

	var pieces []string
	var current strings.Builder
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(para) > cfg.TargetSize {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	return applyOverlap(pieces, cfg.Overlap)
}

// applyOverlap prepends the tail of the previous piece, trimmed to a word
// boundary, onto each following piece.
func applyOverlap(pieces []string, overlap int) []string {
	if overlap <= 0 || len(pieces) <= 1 {
		return pieces
	}
	out := make([]string, len(pieces))
	copy(out, pieces)
	for i := 1; i < len(out); i++ {
		prev := pieces[i-1]
		if len(prev) <= overlap {
			continue
		}
		tail := prev[len(prev)-overlap:]
		if idx := strings.IndexByte(tail, ' '); idx >= 0 {
			tail = tail[idx+1:]
		}
		out[i] = tail + " " + out[i]
	}
	return out
}
