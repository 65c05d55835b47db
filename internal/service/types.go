package service

import "github.com/google/uuid"

// ChunkMatch is one retrieved chunk together with its similarity score.
// Chunks returned by the all-chunks fallback carry a zero score.
type ChunkMatch struct {
	ID         string
	CompanyID  string
	DocumentID string
	URL        string
	Title      string
	ChunkIndex int
	Content    string
	Score      float32
}

// UUIDGenerator abstracts ID creation so tests can use deterministic IDs.
type UUIDGenerator interface {
	NewID() string
}

type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewID() string {
	return uuid.NewString()
}
