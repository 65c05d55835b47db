package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prepdeck/brief/internal/domain"
)

// EmbeddingClient turns text into embedding vectors.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// IndexingDocumentRepository reads the documents to be chunked.
type IndexingDocumentRepository interface {
	ListDocuments(ctx context.Context, companyID string) ([]*domain.Document, error)
}

// IndexingChunkRepository persists embedded chunks.
type IndexingChunkRepository interface {
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error
	CountByCompany(ctx context.Context, companyID string) (int, error)
}

// IndexingService splits a company's documents into sentence chunks, embeds
// them in one batch call, and stores the vectors. Indexing is idempotent per
// company: a second call returns ErrAlreadyIndexed without re-embedding.
type IndexingService struct {
	embeddings EmbeddingClient
	docs       IndexingDocumentRepository
	chunks     IndexingChunkRepository
	txRunner   TxRunner
	uuidGen    UUIDGenerator
	now        func() time.Time
}

func NewIndexingService(embeddings EmbeddingClient, docs IndexingDocumentRepository, chunks IndexingChunkRepository) *IndexingService {
	return &IndexingService{
		embeddings: embeddings,
		docs:       docs,
		chunks:     chunks,
		uuidGen:    DefaultUUIDGenerator{},
		now:        time.Now,
	}
}

// NewIndexingServiceWithTx writes the chunk batch inside a single
// transaction. A failure mid-batch rolls back completely, so the company
// stays unindexed and a later run can redo the whole step.
func NewIndexingServiceWithTx(embeddings EmbeddingClient, docs IndexingDocumentRepository, chunks IndexingChunkRepository, txRunner TxRunner) *IndexingService {
	svc := NewIndexingService(embeddings, docs, chunks)
	svc.txRunner = txRunner
	return svc
}

// Index embeds and stores all chunks for a company. Returns the number of
// chunks written. A batch embedding failure aborts the whole run and leaves
// the company unindexed; the chunk batch is written in one transaction, so
// a storage failure leaves no partial rows and the run can be redone.
func (s *IndexingService) Index(ctx context.Context, companyID string) (int, error) {
	count, err := s.chunks.CountByCompany(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing chunks: %w", err)
	}
	if count > 0 {
		return 0, domain.ErrAlreadyIndexed
	}

	docs, err := s.docs.ListDocuments(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	chunks := s.buildChunks(companyID, docs)
	if len(chunks) == 0 {
		return 0, domain.ErrNoContent
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := s.embeddings.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.storeChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(chunks), nil
}

// storeChunks writes the batch through the TxRunner when one is configured,
// so either every chunk lands or none do.
func (s *IndexingService) storeChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.txRunner != nil {
		return s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
			return repos.Chunks().InsertChunks(ctx, chunks)
		})
	}
	return s.chunks.InsertChunks(ctx, chunks)
}

func (s *IndexingService) buildChunks(companyID string, docs []*domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		text := doc.Content
		if text == "" {
			text = doc.Snippet
		}
		for i, sentence := range SplitSentences(text) {
			chunks = append(chunks, domain.Chunk{
				ID:         s.uuidGen.NewID(),
				CompanyID:  companyID,
				DocumentID: doc.ID,
				URL:        doc.URL,
				Title:      doc.Title,
				ChunkIndex: i,
				Content:    sentence,
				CreatedAt:  s.now().UTC(),
			})
		}
	}
	return chunks
}
