package service

import (
	"context"
	"fmt"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/internal/repository/specification"
	"bookapp-ai-be/internal/repository/unitofwork"
	"bookapp-ai-be/pkg/bookai/tagger"
)

// retagService re-classifies stored books for the retry coordinator. Its
// classifier is expected to use the stronger retry model.
type retagService struct {
	uowFactory unitofwork.RepositoryFactory
	classifier IBookClassifier
	logger     logger.ILogger
}

func NewRetagService(uowFactory unitofwork.RepositoryFactory, classifier IBookClassifier, log logger.ILogger) tagger.Retagger {
	return &retagService{
		uowFactory: uowFactory,
		classifier: classifier,
		logger:     log,
	}
}

func (s *retagService) Retag(ctx context.Context, isbn string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.BookCorpusRepository()

	book, err := repo.FindOne(ctx, specification.ByIsbn{Isbn: isbn})
	if err != nil {
		return fmt.Errorf("load book %s: %w", isbn, err)
	}
	if book == nil {
		s.logger.Warn("RETAG", "Book vanished before retry", map[string]interface{}{"isbn": isbn})
		return nil
	}

	classification := s.classifier.ClassifyWithFallback(ctx, book.Title, book.Contents, book.Authors, book.Keyword)
	if !classification.UsedLLM {
		// A second fallback is final; the book keeps its rule-based tags.
		s.logger.Warn("RETAG", "Retry model also fell back to rules", map[string]interface{}{"isbn": isbn})
		return fmt.Errorf("retry classification for %s fell back to rules", isbn)
	}

	applied, err := s.apply(ctx, isbn, classification)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("RETAG", "Book already tagged by the LLM, skipping update", map[string]interface{}{"isbn": isbn})
		return nil
	}

	s.logger.Info("RETAG", "Book re-tagged", map[string]interface{}{
		"isbn":    isbn,
		"keyword": classification.PrimaryKeyword,
	})
	return nil
}

// apply writes the new tags only while the row is still rule-tagged.
func (s *retagService) apply(ctx context.Context, isbn string, classification tagger.Classification) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("begin retag of %s: %w", isbn, err)
	}
	repo := uow.BookCorpusRepository()

	current, err := repo.FindOne(ctx, specification.ByIsbn{Isbn: isbn}, specification.FallbackTagged{})
	if err != nil {
		_ = uow.Rollback()
		return false, fmt.Errorf("reload book %s: %w", isbn, err)
	}
	if current == nil {
		_ = uow.Rollback()
		return false, nil
	}

	if err := repo.UpdateClassification(ctx, isbn, classification.PrimaryKeyword, classification.Tags, true); err != nil {
		_ = uow.Rollback()
		return false, fmt.Errorf("update tags for %s: %w", isbn, err)
	}
	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("commit retag of %s: %w", isbn, err)
	}
	return true, nil
}
