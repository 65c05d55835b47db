package domain

import "time"

// Chunk represents a sentence-level fragment of a source document, the unit
// of embedding and retrieval. Chunks are created in bulk during indexing and
// immutable afterward.
type Chunk struct {
	ID         string
	CompanyID  string
	DocumentID string
	URL        string
	Title      string
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
