package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/prepdeck/brief/internal/domain"
	"github.com/prepdeck/brief/internal/service"
)

// ChunkRepository handles persistence and vector search of embedded chunks.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// InsertChunks persists one row per chunk with its embedding and metadata.
func (r *ChunkRepository) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO company_chunks
				(id, company_id, document_id, url, title, chunk_index, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			c.ID,
			c.CompanyID,
			nullableString(c.DocumentID),
			nullableString(c.URL),
			c.Title,
			c.ChunkIndex,
			c.Content,
			pgvector.NewVector(c.Embedding),
			createdAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// CountByCompany returns the number of chunks indexed for a company. The
// indexing guard checks this before re-embedding.
func (r *ChunkRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM company_chunks WHERE company_id = $1`,
		companyID,
	).Scan(&count)
	return count, err
}

// SearchByEmbedding runs a nearest-neighbor search scoped to one company.
// It scans a bounded candidate pool ordered by vector distance and returns
// the top results with a similarity score.
func (r *ChunkRepository) SearchByEmbedding(ctx context.Context, companyID string, embedding []float32, candidates, limit int) ([]*service.ChunkMatch, error) {
	if limit <= 0 {
		limit = 10
	}
	if candidates < limit {
		candidates = limit
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT id, company_id, document_id, url, title, chunk_index, content, score
		 FROM (
			SELECT id, company_id, document_id, url, title, chunk_index, content,
			       1.0 / (1.0 + (embedding <=> $1)) AS score
			FROM company_chunks
			WHERE company_id = $2 AND embedding IS NOT NULL
			ORDER BY embedding <=> $1
			LIMIT $3
		 ) candidates
		 ORDER BY score DESC
		 LIMIT $4`,
		vec, companyID, candidates, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*service.ChunkMatch, 0, limit)
	for rows.Next() {
		var m service.ChunkMatch
		var documentID, url *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &documentID, &url, &m.Title, &m.ChunkIndex, &m.Content, &m.Score); err != nil {
			return nil, err
		}
		if documentID != nil {
			m.DocumentID = *documentID
		}
		if url != nil {
			m.URL = *url
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// ListByCompany returns every chunk for a company in insertion order.
// Retrieval falls back to this when vector search yields nothing.
func (r *ChunkRepository) ListByCompany(ctx context.Context, companyID string) ([]*service.ChunkMatch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, company_id, document_id, url, title, chunk_index, content
		 FROM company_chunks
		 WHERE company_id = $1
		 ORDER BY document_id, chunk_index ASC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*service.ChunkMatch
	for rows.Next() {
		var m service.ChunkMatch
		var documentID, url *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &documentID, &url, &m.Title, &m.ChunkIndex, &m.Content); err != nil {
			return nil, err
		}
		if documentID != nil {
			m.DocumentID = *documentID
		}
		if url != nil {
			m.URL = *url
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}
