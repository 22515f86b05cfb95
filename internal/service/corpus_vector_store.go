package service

import (
	"context"

	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/repository/unitofwork"
	"bookapp-ai-be/pkg/bookai/search"
)

// corpusVectorStore serves the search orchestrator from the book_corpus table.
type corpusVectorStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCorpusVectorStore(uowFactory unitofwork.RepositoryFactory) search.VectorStore {
	return &corpusVectorStore{uowFactory: uowFactory}
}

func (s *corpusVectorStore) QueryBySimilarity(ctx context.Context, vector []float32, threshold float64, keywords []string, limit int) ([]search.Result, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.BookCorpusRepository().SearchSimilarWithScore(ctx, vector, threshold, keywords, limit)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(scored))
	for _, row := range scored {
		results = append(results, toSearchResult(row.Book, row.Similarity))
	}
	return results, nil
}

func (s *corpusVectorStore) QueryByAuthorPattern(ctx context.Context, pattern string, excludeIsbns []string, limit int) ([]search.Result, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	books, err := uow.BookCorpusRepository().SearchByAuthorPattern(ctx, pattern, excludeIsbns, limit)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(books))
	for _, book := range books {
		results = append(results, toSearchResult(book, 0))
	}
	return results, nil
}

func toSearchResult(book *entity.BookCorpus, similarity float64) search.Result {
	return search.Result{
		ID:         book.Id,
		Title:      book.Title,
		Contents:   book.Contents,
		Isbn:       book.Isbn,
		Authors:    book.Authors,
		Publisher:  book.Publisher,
		Thumbnail:  book.Thumbnail,
		Similarity: similarity,
	}
}
