package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prepdeck/brief/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestIndexing(embeddings *MockEmbeddingClient, docs *MockCompanyRepository, chunks *MockChunkRepository) *IndexingService {
	svc := NewIndexingService(embeddings, docs, chunks)
	svc.uuidGen = &seqUUIDGenerator{}
	return svc
}

func TestIndexingService_Index_AlreadyIndexed(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)

	chunks.On("CountByCompany", mock.Anything, "c1").Return(42, nil)

	svc := newTestIndexing(embeddings, docs, chunks)
	n, err := svc.Index(context.Background(), "c1")

	assert.ErrorIs(t, err, domain.ErrAlreadyIndexed)
	assert.Zero(t, n)
	embeddings.AssertNotCalled(t, "GenerateEmbeddings", mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "ListDocuments", mock.Anything, mock.Anything)
}

func TestIndexingService_Index_NoContent(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)

	chunks.On("CountByCompany", mock.Anything, "c1").Return(0, nil)
	docs.On("ListDocuments", mock.Anything, "c1").Return([]*domain.Document{}, nil)

	svc := newTestIndexing(embeddings, docs, chunks)
	n, err := svc.Index(context.Background(), "c1")

	assert.ErrorIs(t, err, domain.ErrNoContent)
	assert.Zero(t, n)
}

func TestIndexingService_Index_EmbedsAllChunksInOneBatch(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)

	chunks.On("CountByCompany", mock.Anything, "c1").Return(0, nil)
	docs.On("ListDocuments", mock.Anything, "c1").Return([]*domain.Document{
		{ID: "d1", CompanyID: "c1", URL: "https://a.example/1", Title: "A", Content: "First round. Second round."},
		{ID: "d2", CompanyID: "c1", URL: "https://a.example/2", Title: "B", Content: "", Snippet: "Only a snippet here."},
	}, nil)

	embeddings.On("GenerateEmbeddings", mock.Anything, []string{"First round", "Second round", "Only a snippet here"}).
		Return([][]float32{{0.1}, {0.2}, {0.3}}, nil)

	var stored []domain.Chunk
	chunks.On("InsertChunks", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).([]domain.Chunk)
		}).
		Return(nil)

	svc := newTestIndexing(embeddings, docs, chunks)
	n, err := svc.Index(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, stored, 3)

	assert.Equal(t, "d1", stored[0].DocumentID)
	assert.Equal(t, 0, stored[0].ChunkIndex)
	assert.Equal(t, "First round", stored[0].Content)
	assert.Equal(t, []float32{0.1}, stored[0].Embedding)

	assert.Equal(t, 1, stored[1].ChunkIndex)

	// Chunk indexes restart per document.
	assert.Equal(t, "d2", stored[2].DocumentID)
	assert.Equal(t, 0, stored[2].ChunkIndex)
	assert.Equal(t, "https://a.example/2", stored[2].URL)
}

func TestIndexingService_Index_BatchEmbeddingFailureAborts(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)

	chunks.On("CountByCompany", mock.Anything, "c1").Return(0, nil)
	docs.On("ListDocuments", mock.Anything, "c1").Return([]*domain.Document{
		{ID: "d1", CompanyID: "c1", Content: "Something to index."},
	}, nil)
	embeddings.On("GenerateEmbeddings", mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream unavailable")).Once()

	svc := newTestIndexing(embeddings, docs, chunks)
	n, err := svc.Index(context.Background(), "c1")

	require.Error(t, err)
	assert.Zero(t, n)
	// One attempt only; bulk embedding is not retried.
	embeddings.AssertNumberOfCalls(t, "GenerateEmbeddings", 1)
	chunks.AssertNotCalled(t, "InsertChunks", mock.Anything, mock.Anything)
}

func TestIndexingService_Index_WritesChunksThroughTransaction(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)
	txChunks := new(MockChunkRepository)

	chunks.On("CountByCompany", mock.Anything, "c1").Return(0, nil)
	docs.On("ListDocuments", mock.Anything, "c1").Return([]*domain.Document{
		{ID: "d1", CompanyID: "c1", Content: "One. Two."},
	}, nil)
	embeddings.On("GenerateEmbeddings", mock.Anything, mock.Anything).
		Return([][]float32{{0.1}, {0.2}}, nil)
	txChunks.On("InsertChunks", mock.Anything, mock.Anything).Return(nil)

	runner := &testTxRunner{repos: &testTxRepos{chunks: txChunks}}
	svc := NewIndexingServiceWithTx(embeddings, docs, chunks, runner)
	svc.uuidGen = &seqUUIDGenerator{}

	n, err := svc.Index(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, runner.called)
	txChunks.AssertNumberOfCalls(t, "InsertChunks", 1)
	// The pool-bound repository only serves the idempotency read.
	chunks.AssertNotCalled(t, "InsertChunks", mock.Anything, mock.Anything)
}

func TestIndexingService_Index_FailedStoreKeepsCompanyRetryable(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)
	txChunks := new(MockChunkRepository)

	// The rolled-back write leaves no chunks behind, so the idempotency
	// guard keeps reporting zero.
	chunks.On("CountByCompany", mock.Anything, "c1").Return(0, nil)
	docs.On("ListDocuments", mock.Anything, "c1").Return([]*domain.Document{
		{ID: "d1", CompanyID: "c1", Content: "One. Two."},
	}, nil)
	embeddings.On("GenerateEmbeddings", mock.Anything, mock.Anything).
		Return([][]float32{{0.1}, {0.2}}, nil)
	txChunks.On("InsertChunks", mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()
	txChunks.On("InsertChunks", mock.Anything, mock.Anything).
		Return(nil).Once()

	runner := &testTxRunner{repos: &testTxRepos{chunks: txChunks}}
	svc := NewIndexingServiceWithTx(embeddings, docs, chunks, runner)
	svc.uuidGen = &seqUUIDGenerator{}

	n, err := svc.Index(context.Background(), "c1")
	require.Error(t, err)
	assert.Zero(t, n)

	// A second run redoes the whole step instead of hitting ErrAlreadyIndexed.
	n, err = svc.Index(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIndexingService_Index_EmbeddingCountMismatch(t *testing.T) {
	embeddings := new(MockEmbeddingClient)
	docs := new(MockCompanyRepository)
	chunks := new(MockChunkRepository)

	chunks.On("CountByCompany", mock.Anything, "c1").Return(0, nil)
	docs.On("ListDocuments", mock.Anything, "c1").Return([]*domain.Document{
		{ID: "d1", CompanyID: "c1", Content: "One. Two."},
	}, nil)
	embeddings.On("GenerateEmbeddings", mock.Anything, mock.Anything).
		Return([][]float32{{0.1}}, nil)

	svc := newTestIndexing(embeddings, docs, chunks)
	_, err := svc.Index(context.Background(), "c1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
	chunks.AssertNotCalled(t, "InsertChunks", mock.Anything, mock.Anything)
}
