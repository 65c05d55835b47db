package jobs

import (
	"context"
	"errors"
	"log"

	"github.com/prepdeck/brief/internal/domain"
)

const unindexedBatchSize = 10

// UnindexedLister finds companies whose documents never made it into the
// vector index, usually because an embedding batch failed mid-acquisition.
type UnindexedLister interface {
	ListUnindexed(ctx context.Context, limit int) ([]*domain.Company, error)
}

// CompanyIndexer runs the chunk-and-embed pass for one company.
type CompanyIndexer interface {
	Index(ctx context.Context, companyID string) (int, error)
}

// IndexProcessor retries indexing for companies left unindexed by earlier
// failures. A company that still cannot be indexed stays in the queue and
// is picked up again on the next poll.
type IndexProcessor struct {
	companies UnindexedLister
	indexer   CompanyIndexer
}

func NewIndexProcessor(companies UnindexedLister, indexer CompanyIndexer) *IndexProcessor {
	return &IndexProcessor{
		companies: companies,
		indexer:   indexer,
	}
}

// ProcessJobs indexes up to one batch of unindexed companies. Per-company
// failures are logged and skipped so one bad company cannot stall the rest.
func (p *IndexProcessor) ProcessJobs(ctx context.Context) error {
	companies, err := p.companies.ListUnindexed(ctx, unindexedBatchSize)
	if err != nil {
		return err
	}

	if len(companies) == 0 {
		return nil
	}

	log.Printf("Processing %d unindexed companies", len(companies))

	for _, company := range companies {
		n, err := p.indexer.Index(ctx, company.ID)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyIndexed) || errors.Is(err, domain.ErrNoContent) {
				continue
			}
			log.Printf("Error indexing company %s: %v", company.ID, err)
			continue
		}
		log.Printf("Indexed company %s: %d chunks", company.ID, n)
	}

	return nil
}
