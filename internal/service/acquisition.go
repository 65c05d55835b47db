package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prepdeck/brief/internal/domain"
	"github.com/prepdeck/brief/internal/scrape"
)

// SearchClient finds candidate pages about a company's interview process.
type SearchClient interface {
	SearchCompany(ctx context.Context, company, hint string) ([]domain.SearchResult, error)
}

// PageExtractor fetches a URL and extracts its readable text.
type PageExtractor interface {
	ExtractPage(ctx context.Context, pageURL string) (*scrape.Page, error)
}

// PageArchiver stores the raw HTML of scraped pages. Optional; a nil archiver
// disables archiving.
type PageArchiver interface {
	ArchivePage(ctx context.Context, companyID, pageURL string, html []byte) error
}

// AcquisitionCompanyRepository is the persistence surface acquisition needs.
type AcquisitionCompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	InsertDocuments(ctx context.Context, docs []domain.Document) error
}

// AcquisitionService builds a company's knowledge base from the web: it
// searches for relevant pages, scrapes each one, and persists the results
// as documents. Scrape failures degrade to the search snippet; only a
// failed search aborts the whole acquisition.
type AcquisitionService struct {
	search          SearchClient
	extractor       PageExtractor
	repo            AcquisitionCompanyRepository
	archive         PageArchiver
	txRunner        TxRunner
	uuidGen         UUIDGenerator
	minContentChars int
	now             func() time.Time
}

func NewAcquisitionService(search SearchClient, extractor PageExtractor, repo AcquisitionCompanyRepository, archive PageArchiver, minContentChars int) *AcquisitionService {
	return &AcquisitionService{
		search:          search,
		extractor:       extractor,
		repo:            repo,
		archive:         archive,
		uuidGen:         DefaultUUIDGenerator{},
		minContentChars: minContentChars,
		now:             time.Now,
	}
}

// NewAcquisitionServiceWithTx persists the company and its documents inside
// a single transaction, so a failed acquisition leaves no partial state.
func NewAcquisitionServiceWithTx(search SearchClient, extractor PageExtractor, repo AcquisitionCompanyRepository, archive PageArchiver, minContentChars int, txRunner TxRunner) *AcquisitionService {
	svc := NewAcquisitionService(search, extractor, repo, archive, minContentChars)
	svc.txRunner = txRunner
	return svc
}

// Acquire creates the company record and persists one document per usable
// search result, in result order. The returned documents are the persisted
// set; an acquisition that finds nothing usable still creates the company.
func (s *AcquisitionService) Acquire(ctx context.Context, name, hint string) (*domain.Company, []domain.Document, error) {
	results, err := s.search.SearchCompany(ctx, name, hint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search for company %q: %w", name, err)
	}

	company := domain.NewCompany(s.uuidGen.NewID(), domain.NormalizeCompanyName(name), s.now().UTC())
	if err := domain.ValidateCompany(company); err != nil {
		return nil, nil, err
	}

	docs := make([]domain.Document, 0, len(results))
	for i, result := range results {
		doc := s.buildDocument(ctx, company.ID, i, result)
		if err := domain.ValidateDocument(&doc); err != nil {
			log.Printf("skipping unusable result %s: %v", result.URL, err)
			continue
		}
		doc.Position = len(docs)
		docs = append(docs, doc)
	}

	if err := s.persist(ctx, company, docs); err != nil {
		return nil, nil, err
	}

	return company, docs, nil
}

// persist writes the company and its documents together. With a TxRunner both
// writes share one transaction; a retry after a failed acquisition starts
// from a clean slate.
func (s *AcquisitionService) persist(ctx context.Context, company *domain.Company, docs []domain.Document) error {
	if s.txRunner != nil {
		return s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
			return persistAcquisition(ctx, repos.Companies(), company, docs)
		})
	}
	return persistAcquisition(ctx, s.repo, company, docs)
}

func persistAcquisition(ctx context.Context, repo AcquisitionCompanyRepository, company *domain.Company, docs []domain.Document) error {
	if err := repo.Create(ctx, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}
	if err := repo.InsertDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to persist documents: %w", err)
	}
	return nil
}

// buildDocument scrapes one search result. When the page cannot be fetched
// or yields too little text, the search snippet substitutes for the content.
func (s *AcquisitionService) buildDocument(ctx context.Context, companyID string, position int, result domain.SearchResult) domain.Document {
	doc := domain.Document{
		ID:        s.uuidGen.NewID(),
		CompanyID: companyID,
		URL:       result.URL,
		Title:     result.Title,
		Snippet:   result.Snippet,
		Position:  position,
		CreatedAt: s.now().UTC(),
	}

	page, err := s.extractor.ExtractPage(ctx, result.URL)
	if err != nil {
		log.Printf("scrape failed for %s, falling back to snippet: %v", result.URL, err)
		doc.Content = result.Snippet
		return doc
	}

	if page.Title != "" {
		doc.Title = page.Title
	}
	if len(page.Text) < s.minContentChars {
		doc.Content = result.Snippet
	} else {
		doc.Content = page.Text
	}

	if s.archive != nil && len(page.RawHTML) > 0 {
		if err := s.archive.ArchivePage(ctx, companyID, result.URL, page.RawHTML); err != nil {
			log.Printf("failed to archive raw page %s: %v", result.URL, err)
		}
	}

	return doc
}
