package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/prepdeck/brief/internal/domain"
	"github.com/prepdeck/brief/internal/telemetry"
)

// NoInformationAnswer is returned when a company has no stored content at
// all: no chunks and no documents.
const NoInformationAnswer = "No information is available about this company's interview process yet."

const answerPromptTemplate = `You are an interview preparation assistant. Answer the candidate's question about a company's interview process.

Use ONLY the context below. Do not use outside knowledge. If the context does not contain enough information to answer, say so explicitly instead of guessing.

Context:
%s

Question: %s`

// AnswerClient generates a completion for a fully-built prompt.
type AnswerClient interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// RetrievalChunkRepository is the chunk read surface retrieval needs.
type RetrievalChunkRepository interface {
	SearchByEmbedding(ctx context.Context, companyID string, embedding []float32, candidates, limit int) ([]*ChunkMatch, error)
	ListByCompany(ctx context.Context, companyID string) ([]*ChunkMatch, error)
}

// RetrievalDocumentRepository provides the document-level fallback when a
// company has no chunks.
type RetrievalDocumentRepository interface {
	ListDocuments(ctx context.Context, companyID string) ([]*domain.Document, error)
}

// RetrievalConfig bounds the search and the query-embedding retry loop.
type RetrievalConfig struct {
	TopK          int
	CandidatePool int
	RetryAttempts int
	RetryBaseWait time.Duration
	MaxSources    int
}

func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:          10,
		CandidatePool: 100,
		RetryAttempts: 3,
		RetryBaseWait: time.Second,
		MaxSources:    5,
	}
}

// RetrievalService answers questions from stored content. It embeds the
// query (with retries), runs a company-scoped vector search, and degrades
// gracefully: failed embedding or empty search falls back to all stored
// chunks, then to raw documents, then to a fixed no-information answer.
type RetrievalService struct {
	embeddings EmbeddingClient
	answerer   AnswerClient
	chunks     RetrievalChunkRepository
	docs       RetrievalDocumentRepository
	cfg        RetrievalConfig
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewRetrievalService(embeddings EmbeddingClient, answerer AnswerClient, chunks RetrievalChunkRepository, docs RetrievalDocumentRepository, cfg RetrievalConfig) *RetrievalService {
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = 100
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBaseWait <= 0 {
		cfg.RetryBaseWait = time.Second
	}
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = 5
	}
	return &RetrievalService{
		embeddings: embeddings,
		answerer:   answerer,
		chunks:     chunks,
		docs:       docs,
		cfg:        cfg,
		sleep:      sleepContext,
	}
}

// Answer builds the context for a question and asks the model. The returned
// sources list the chunks (or documents) the context came from, in retrieval
// order, capped at MaxSources. Duplicate URLs are kept as-is.
func (s *RetrievalService) Answer(ctx context.Context, companyID, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrMissingQuestion
	}

	matches := s.retrieveChunks(ctx, companyID, question)

	var contextText string
	var sources []domain.SourceRef

	if len(matches) > 0 {
		contextText, sources = buildChunkContext(matches, s.cfg.MaxSources)
	} else {
		docs, err := s.docs.ListDocuments(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		contextText, sources = buildDocumentContext(docs, s.cfg.MaxSources)
	}

	if contextText == "" {
		return &domain.Answer{
			CompanyID: companyID,
			Answer:    NoInformationAnswer,
			Sources:   []domain.SourceRef{},
		}, nil
	}

	prompt := fmt.Sprintf(answerPromptTemplate, contextText, question)
	text, err := s.answerer.GenerateAnswer(ctx, prompt)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to generate answer", err)
	}

	return &domain.Answer{
		CompanyID: companyID,
		Answer:    text,
		Sources:   sources,
	}, nil
}

// retrieveChunks runs the vector search when the query can be embedded, and
// falls back to every stored chunk when it cannot or when search finds
// nothing. Both failures here are recoverable; an empty slice means the
// document-level fallback is next.
func (s *RetrievalService) retrieveChunks(ctx context.Context, companyID, question string) []*ChunkMatch {
	embedding := s.embedQueryWithRetry(ctx, question)

	if embedding != nil {
		matches, err := s.chunks.SearchByEmbedding(ctx, companyID, embedding, s.cfg.CandidatePool, s.cfg.TopK)
		if err != nil {
			log.Printf("vector search failed for company %s, falling back to all chunks: %v", companyID, err)
		} else if len(matches) > 0 {
			return matches
		}
	}

	matches, err := s.chunks.ListByCompany(ctx, companyID)
	if err != nil {
		log.Printf("chunk listing failed for company %s: %v", companyID, err)
		return nil
	}
	return matches
}

// embedQueryWithRetry attempts the query embedding up to RetryAttempts
// times, waiting base, 2*base, ... between attempts. Returns nil once every
// attempt has failed; the caller falls back to unranked retrieval.
func (s *RetrievalService) embedQueryWithRetry(ctx context.Context, question string) []float32 {
	var lastErr error
	for attempt := 0; attempt < s.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := s.cfg.RetryBaseWait * (1 << (attempt - 1))
			if err := s.sleep(ctx, delay); err != nil {
				return nil
			}
		}

		embedding, err := s.embeddings.GenerateEmbedding(ctx, question)
		if err == nil {
			return embedding
		}
		lastErr = err
	}
	log.Printf("query embedding failed after %d attempts: %v", s.cfg.RetryAttempts, lastErr)
	telemetry.CaptureError(ctx, lastErr)
	return nil
}

func buildChunkContext(matches []*ChunkMatch, maxSources int) (string, []domain.SourceRef) {
	parts := make([]string, 0, len(matches))
	sources := make([]domain.SourceRef, 0, maxSources)
	for _, m := range matches {
		parts = append(parts, m.Content)
		if len(sources) < maxSources {
			sources = append(sources, domain.SourceRef{Title: m.Title, URL: m.URL})
		}
	}
	return strings.Join(parts, "\n\n"), sources
}

func buildDocumentContext(docs []*domain.Document, maxSources int) (string, []domain.SourceRef) {
	parts := make([]string, 0, len(docs))
	sources := make([]domain.SourceRef, 0, maxSources)
	for _, d := range docs {
		text := d.Content
		if text == "" {
			text = d.Snippet
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if len(sources) < maxSources {
			sources = append(sources, domain.SourceRef{Title: d.Title, URL: d.URL})
		}
	}
	return strings.Join(parts, "\n\n"), sources
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
