package contract

import (
	"context"
	"errors"

	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/repository/specification"
)

// ErrDuplicateIsbn is returned by Create when the ISBN is already stored.
var ErrDuplicateIsbn = errors.New("book with this isbn already exists")

// ScoredBook wraps a corpus row with its cosine similarity to a query vector.
type ScoredBook struct {
	Book       *entity.BookCorpus
	Similarity float64
}

type BookCorpusRepository interface {
	Create(ctx context.Context, book *entity.BookCorpus) error
	UpdateClassification(ctx context.Context, isbn, keyword string, tags []string, usedLLM bool) error
	ExistsByIsbn(ctx context.Context, isbn string) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookCorpus, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookCorpus, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore matches rows above the threshold OR whose keyword is in keywords.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, keywords []string, limit int) ([]*ScoredBook, error)
	SearchByAuthorPattern(ctx context.Context, pattern string, excludeIsbns []string, limit int) ([]*entity.BookCorpus, error)
}
