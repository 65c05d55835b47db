package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepdeck/brief/internal/domain"
)

type CompanyRepository struct {
	db dbtx
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: pool}
}

func NewCompanyRepositoryWithTx(tx pgx.Tx) *CompanyRepository {
	return &CompanyRepository{db: tx}
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, domain.NormalizeCompanyName(c.Name), c.CreatedAt,
	)
	return err
}

// GetByName looks a company up by its normalized name. This is the existence
// check: a pure read, safe to call repeatedly.
func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	var c domain.Company
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM companies WHERE name = $1`,
		domain.NormalizeCompanyName(name),
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	var c domain.Company
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// InsertDocuments appends processed source documents for a company.
func (r *CompanyRepository) InsertDocuments(ctx context.Context, docs []domain.Document) error {
	for _, d := range docs {
		createdAt := d.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO company_documents (id, company_id, url, title, content, snippet, position, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			d.ID, d.CompanyID, nullableString(d.URL), d.Title, d.Content, d.Snippet, d.Position, createdAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListDocuments returns a company's documents in acquisition order.
func (r *CompanyRepository) ListDocuments(ctx context.Context, companyID string) ([]*domain.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, company_id, url, title, content, snippet, position, created_at
		 FROM company_documents WHERE company_id = $1 ORDER BY position ASC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var d domain.Document
		var url *string
		if err := rows.Scan(&d.ID, &d.CompanyID, &url, &d.Title, &d.Content, &d.Snippet, &d.Position, &d.CreatedAt); err != nil {
			return nil, err
		}
		if url != nil {
			d.URL = *url
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of documents persisted for a company.
func (r *CompanyRepository) CountDocuments(ctx context.Context, companyID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM company_documents WHERE company_id = $1`,
		companyID,
	).Scan(&count)
	return count, err
}

// ListUnindexed returns companies that have documents but no chunks yet.
// Used by the indexing backfill worker.
func (r *CompanyRepository) ListUnindexed(ctx context.Context, limit int) ([]*domain.Company, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.created_at
		 FROM companies c
		 WHERE EXISTS (SELECT 1 FROM company_documents d WHERE d.company_id = c.id)
		   AND NOT EXISTS (SELECT 1 FROM company_chunks ch WHERE ch.company_id = c.id)
		 ORDER BY c.created_at ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}
