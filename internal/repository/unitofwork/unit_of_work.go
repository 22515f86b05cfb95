package unitofwork

import (
	"context"

	"bookapp-ai-be/internal/repository/contract"
)

// RepositoryFactory hands out units bound to the shared connection pool.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BookCorpusRepository() contract.BookCorpusRepository
}
