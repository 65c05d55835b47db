package service

import (
	"context"
	"fmt"

	"github.com/prepdeck/brief/internal/domain"
	"github.com/prepdeck/brief/internal/scrape"
	"github.com/stretchr/testify/mock"
)

// MockSearchClient is a mock implementation of SearchClient
type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) SearchCompany(ctx context.Context, company, hint string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, company, hint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

// MockPageExtractor is a mock implementation of PageExtractor
type MockPageExtractor struct {
	mock.Mock
}

func (m *MockPageExtractor) ExtractPage(ctx context.Context, pageURL string) (*scrape.Page, error) {
	args := m.Called(ctx, pageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scrape.Page), args.Error(1)
}

// MockPageArchiver is a mock implementation of PageArchiver
type MockPageArchiver struct {
	mock.Mock
}

func (m *MockPageArchiver) ArchivePage(ctx context.Context, companyID, pageURL string, html []byte) error {
	args := m.Called(ctx, companyID, pageURL, html)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of the company persistence
// surfaces used across the services
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) InsertDocuments(ctx context.Context, docs []domain.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockCompanyRepository) ListDocuments(ctx context.Context, companyID string) ([]*domain.Document, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

// MockChunkRepository is a mock implementation of the chunk persistence
// surfaces used by indexing and retrieval
type MockChunkRepository struct {
	mock.Mock
}

func (m *MockChunkRepository) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *MockChunkRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

func (m *MockChunkRepository) SearchByEmbedding(ctx context.Context, companyID string, embedding []float32, candidates, limit int) ([]*ChunkMatch, error) {
	args := m.Called(ctx, companyID, embedding, candidates, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ChunkMatch), args.Error(1)
}

func (m *MockChunkRepository) ListByCompany(ctx context.Context, companyID string) ([]*ChunkMatch, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ChunkMatch), args.Error(1)
}

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockAnswerClient is a mock implementation of AnswerClient
type MockAnswerClient struct {
	mock.Mock
}

func (m *MockAnswerClient) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockAcquirer is a mock implementation of Acquirer
type MockAcquirer struct {
	mock.Mock
}

func (m *MockAcquirer) Acquire(ctx context.Context, name, hint string) (*domain.Company, []domain.Document, error) {
	args := m.Called(ctx, name, hint)
	var company *domain.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*domain.Company)
	}
	var docs []domain.Document
	if args.Get(1) != nil {
		docs = args.Get(1).([]domain.Document)
	}
	return company, docs, args.Error(2)
}

// MockIndexer is a mock implementation of Indexer
type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

// MockAnswerer is a mock implementation of Answerer
type MockAnswerer struct {
	mock.Mock
}

func (m *MockAnswerer) Answer(ctx context.Context, companyID, question string) (*domain.Answer, error) {
	args := m.Called(ctx, companyID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}

// testTxRepos hands out the configured repositories as transaction-bound ones
type testTxRepos struct {
	companies AcquisitionCompanyRepository
	chunks    IndexingChunkRepository
}

func (r *testTxRepos) Companies() AcquisitionCompanyRepository { return r.companies }
func (r *testTxRepos) Chunks() IndexingChunkRepository         { return r.chunks }

// testTxRunner is a TxRunner fake that runs fn against testTxRepos and
// records that it was used
type testTxRunner struct {
	repos  TxRepositories
	called bool
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	return fn(t.repos)
}

// seqUUIDGenerator yields deterministic IDs for tests
type seqUUIDGenerator struct {
	n int
}

func (g *seqUUIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}
