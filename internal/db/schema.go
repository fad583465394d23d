package db

import "fmt"

// schemaSQL renders the corpus schema. The HNSW index dimension cannot be
// parameterized in SurrealQL, so it is interpolated.
func schemaSQL(embedDimension int) string {
	return fmt.Sprintf(`
    DEFINE TABLE IF NOT EXISTS manual_chunk SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS content ON manual_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS charger_model ON manual_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS component ON manual_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS source ON manual_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS section ON manual_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON manual_chunk TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created ON manual_chunk TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS chunk_model ON manual_chunk FIELDS charger_model;
    DEFINE INDEX IF NOT EXISTS chunk_embedding ON manual_chunk FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
    DEFINE ANALYZER IF NOT EXISTS chunk_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS chunk_content_ft ON manual_chunk FIELDS content FULLTEXT ANALYZER chunk_analyzer BM25;
`, embedDimension)
}
