package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepdeck/brief/internal/service"
)

// TxRunner provides transaction-bound repositories over a pgx pool. Multi-row
// writes (chunk batches, acquisition output) go through it so a failure
// mid-batch rolls everything back instead of leaving partial rows.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	repos := &txRepos{tx: tx}
	if err := fn(repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) Companies() service.AcquisitionCompanyRepository {
	return NewCompanyRepositoryWithTx(r.tx)
}

func (r *txRepos) Chunks() service.IndexingChunkRepository {
	return NewChunkRepositoryWithTx(r.tx)
}
