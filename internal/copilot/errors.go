package copilot

import "errors"

var (
	// ErrNotInitialized is returned when the retrieval pipeline is not
	// wired up, usually because the server started without a corpus DB.
	ErrNotInitialized = errors.New("rag pipeline not initialized")

	// ErrUpstream marks failures of the embedding model, the LLM, or the
	// corpus database.
	ErrUpstream = errors.New("upstream capability failure")
)
