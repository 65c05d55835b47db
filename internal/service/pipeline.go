package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prepdeck/brief/internal/domain"
	"github.com/prepdeck/brief/internal/telemetry"
)

// CompanyLookup is the existence-check read.
type CompanyLookup interface {
	GetByName(ctx context.Context, name string) (*domain.Company, error)
}

// Acquirer builds a new company's knowledge base from the web.
type Acquirer interface {
	Acquire(ctx context.Context, name, hint string) (*domain.Company, []domain.Document, error)
}

// Indexer chunks and embeds a company's documents.
type Indexer interface {
	Index(ctx context.Context, companyID string) (int, error)
}

// Answerer produces a grounded answer for a question about a company.
type Answerer interface {
	Answer(ctx context.Context, companyID, question string) (*domain.Answer, error)
}

// LookupResult reports whether a company is already known.
type LookupResult struct {
	Exists  bool
	Company *domain.Company
}

// Pipeline ties the stages together: lookup, acquire on miss, index lazily,
// then answer. Two concurrent asks for an unknown company may both acquire
// it; there is no cross-request locking, and company records are append-only
// once written.
type Pipeline struct {
	companies CompanyLookup
	acquirer  Acquirer
	indexer   Indexer
	answerer  Answerer
}

func NewPipeline(companies CompanyLookup, acquirer Acquirer, indexer Indexer, answerer Answerer) *Pipeline {
	return &Pipeline{
		companies: companies,
		acquirer:  acquirer,
		indexer:   indexer,
		answerer:  answerer,
	}
}

// Lookup checks whether a company's knowledge base already exists. It never
// triggers acquisition.
func (p *Pipeline) Lookup(ctx context.Context, name string) (*LookupResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.Lookup", telemetry.SpanAttributes{
		Operation: "lookup",
	})
	defer span.End()

	if domain.NormalizeCompanyName(name) == "" {
		return nil, domain.ErrMissingCompanyName
	}

	company, err := p.companies.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return &LookupResult{Exists: false}, nil
		}
		return nil, fmt.Errorf("failed to look up company: %w", err)
	}
	return &LookupResult{Exists: true, Company: company}, nil
}

// AddCompany acquires and indexes a company explicitly. Returns
// ErrCompanyAlreadyExists when the company is already known; existing
// records are never refreshed or overwritten.
func (p *Pipeline) AddCompany(ctx context.Context, name, hint string) (*domain.Company, error) {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.AddCompany", telemetry.SpanAttributes{
		Operation: "add_company",
	})
	defer span.End()

	result, err := p.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if result.Exists {
		return result.Company, domain.ErrCompanyAlreadyExists
	}

	company, _, err := p.acquirer.Acquire(ctx, name, hint)
	if err != nil {
		return nil, err
	}

	if _, err := p.indexer.Index(ctx, company.ID); err != nil && !errors.Is(err, domain.ErrNoContent) {
		return nil, err
	}
	return company, nil
}

// Ask answers a question about a company, acquiring and indexing its
// knowledge base first when needed. Companies whose earlier indexing failed
// are retried here before retrieval runs.
func (p *Pipeline) Ask(ctx context.Context, name, hint, question string) (*domain.Answer, error) {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	if domain.NormalizeCompanyName(name) == "" {
		return nil, domain.ErrMissingCompanyName
	}

	company, err := p.companies.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, fmt.Errorf("failed to look up company: %w", err)
		}
		company, _, err = p.acquirer.Acquire(ctx, name, hint)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
	}

	if _, err := p.indexer.Index(ctx, company.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyIndexed):
			// Already searchable.
		case errors.Is(err, domain.ErrNoContent):
			log.Printf("company %s has no indexable content", company.ID)
		default:
			return nil, err
		}
	}

	return p.answerer.Answer(ctx, company.ID, question)
}
