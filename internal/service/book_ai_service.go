package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/internal/repository/unitofwork"
	"bookapp-ai-be/pkg/bookai/noise"
	"bookapp-ai-be/pkg/bookai/tagger"
	"bookapp-ai-be/pkg/booksearch"
	"bookapp-ai-be/pkg/embedding"
	"bookapp-ai-be/pkg/events"
)

// IBookClassifier is the part of tagger.Classifier the services use.
type IBookClassifier interface {
	Classify(ctx context.Context, title, contents, authors string) tagger.Classification
	ClassifyWithFallback(ctx context.Context, title, contents, authors, fallbackKeyword string) tagger.Classification
}

// IFailureRecorder receives ISBNs whose tags came from the rule fallback.
type IFailureRecorder interface {
	RecordFailure(isbn string)
}

// IEventPublisher publishes domain events on the bus.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IBookAIService interface {
	Ingest(ctx context.Context, jobId string, keywords []string) (*dto.IngestResult, error)
	EmbedSingleBook(ctx context.Context, req *dto.SingleBookRequest) error
	Classify(ctx context.Context, req *dto.ClassifyBookRequest) *dto.ClassifyBookResponse
}

type IngestOptions struct {
	SimilarityThreshold float64
	MaxPages            int
}

type bookAIService struct {
	uowFactory   unitofwork.RepositoryFactory
	bookProvider booksearch.Provider
	embedder     embedding.EmbeddingProvider
	classifier   IBookClassifier
	recorder     IFailureRecorder
	publisher    IEventPublisher
	options      IngestOptions
	logger       logger.ILogger
}

func NewBookAIService(
	uowFactory unitofwork.RepositoryFactory,
	bookProvider booksearch.Provider,
	embedder embedding.EmbeddingProvider,
	classifier IBookClassifier,
	recorder IFailureRecorder,
	publisher IEventPublisher,
	options IngestOptions,
	log logger.ILogger,
) IBookAIService {
	if options.MaxPages <= 0 {
		options.MaxPages = 5
	}
	return &bookAIService{
		uowFactory:   uowFactory,
		bookProvider: bookProvider,
		embedder:     embedder,
		classifier:   classifier,
		recorder:     recorder,
		publisher:    publisher,
		options:      options,
		logger:       log,
	}
}

// ingestTally accumulates per-run totals across keywords.
type ingestTally struct {
	saved           int
	processed       int
	totalSimilarity float64
}

// Ingest collects books for each keyword from the external provider and
// keeps those close enough to the keyword's anchor text. Per-book failures
// are logged and skipped.
func (s *bookAIService) Ingest(ctx context.Context, jobId string, keywords []string) (*dto.IngestResult, error) {
	if len(keywords) == 0 {
		return nil, errors.New("keywords list cannot be empty")
	}

	tally := &ingestTally{}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.BookCorpusRepository()

	for _, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		s.processKeyword(ctx, repo, keyword, tally)
	}

	result := &dto.IngestResult{
		JobId:             jobId,
		ProcessedKeywords: len(keywords),
		TotalSaved:        tally.saved,
	}
	if tally.processed > 0 {
		result.AverageSimilarity = tally.totalSimilarity / float64(tally.processed)
	}

	s.logger.Info("INGEST", "Keyword ingestion finished", map[string]interface{}{
		"job_id":             jobId,
		"keywords":           keywords,
		"processed_books":    tally.processed,
		"total_saved":        result.TotalSaved,
		"average_similarity": result.AverageSimilarity,
	})

	s.publish(ctx, events.BookIngestionCompleted(jobId, keywords, result.TotalSaved, result.AverageSimilarity))
	return result, nil
}

func (s *bookAIService) processKeyword(ctx context.Context, repo contract.BookCorpusRepository, keyword string, tally *ingestTally) {
	anchor, err := s.embed(ctx, noise.BuildKeywordPrompt(keyword), embedding.TaskRetrievalQuery)
	if err != nil {
		s.logger.Warn("INGEST", "Could not embed keyword, skipping", map[string]interface{}{
			"keyword": keyword,
			"error":   err.Error(),
		})
		return
	}

	for page := 1; page <= s.options.MaxPages; page++ {
		if ctx.Err() != nil {
			return
		}

		books, err := s.bookProvider.Search(ctx, keyword, page)
		if err != nil {
			s.logger.Warn("INGEST", "Book search failed, stopping keyword", map[string]interface{}{
				"keyword": keyword,
				"page":    page,
				"error":   err.Error(),
			})
			return
		}
		if len(books) == 0 {
			return
		}

		for _, book := range books {
			s.ingestBook(ctx, repo, keyword, anchor, book, tally)
		}
	}
}

func (s *bookAIService) ingestBook(ctx context.Context, repo contract.BookCorpusRepository, keyword string, anchor []float32, book booksearch.Book, tally *ingestTally) {
	isbn, ok := book.Isbn13()
	if !ok {
		return
	}

	exists, err := repo.ExistsByIsbn(ctx, isbn)
	if err != nil {
		s.logger.Error("INGEST", "Duplicate check failed", map[string]interface{}{
			"isbn":  isbn,
			"error": err.Error(),
		})
		return
	}
	if exists {
		return
	}

	if noise.ShouldSkipBook(noise.Book{Title: book.Title, Contents: book.Contents, Authors: book.Authors}) {
		s.logger.Debug("INGEST", "Skipping noise book", map[string]interface{}{"isbn": isbn, "title": book.Title})
		return
	}

	vector, err := s.embed(ctx, noise.BuildBookText(book.Title, book.Contents, book.Authors), embedding.TaskRetrievalDocument)
	if err != nil {
		s.logger.Warn("INGEST", "Could not embed book, skipping", map[string]interface{}{
			"isbn":  isbn,
			"error": err.Error(),
		})
		return
	}

	similarity := embedding.CosineSimilarity(anchor, vector)
	tally.processed++
	tally.totalSimilarity += similarity

	if similarity < s.options.SimilarityThreshold {
		return
	}

	authors := noise.FormatAuthors(book.Authors)
	classification := s.classifier.ClassifyWithFallback(ctx, book.Title, book.Contents, authors, keyword)

	saved, err := s.save(ctx, repo, &entity.BookCorpus{
		Title:           book.Title,
		Contents:        book.Contents,
		Isbn:            isbn,
		Authors:         authors,
		Publisher:       book.Publisher,
		Thumbnail:       book.Thumbnail,
		Keyword:         classification.PrimaryKeyword,
		Tags:            classification.Tags,
		UsedLLM:         classification.UsedLLM,
		SimilarityScore: similarity,
		Embedding:       vector,
	})
	if err != nil || !saved {
		return
	}

	tally.saved++
	if !classification.UsedLLM && s.recorder != nil {
		s.recorder.RecordFailure(isbn)
	}

	s.logger.Info("INGEST", "Saved book", map[string]interface{}{
		"title":      book.Title,
		"isbn":       isbn,
		"keyword":    classification.PrimaryKeyword,
		"similarity": similarity,
	})
}

// EmbedSingleBook adds a user-supplied book to the corpus. Duplicates and
// embedding failures are no-ops.
func (s *bookAIService) EmbedSingleBook(ctx context.Context, req *dto.SingleBookRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.BookCorpusRepository()

	exists, err := repo.ExistsByIsbn(ctx, req.Isbn)
	if err != nil {
		return fmt.Errorf("check isbn %s: %w", req.Isbn, err)
	}
	if exists {
		s.logger.Info("INGEST", "Book already in corpus, skipping", map[string]interface{}{"isbn": req.Isbn})
		return nil
	}

	vector, err := s.embed(ctx, noise.BuildBookText(req.Title, req.Contents, req.Authors), embedding.TaskRetrievalDocument)
	if err != nil {
		s.logger.Warn("INGEST", "Could not embed single book, skipping", map[string]interface{}{
			"isbn":  req.Isbn,
			"error": err.Error(),
		})
		return nil
	}

	authors := noise.FormatAuthors(req.Authors)
	classification := s.classifier.ClassifyWithFallback(ctx, req.Title, req.Contents, authors, tagger.DefaultKeyword)

	saved, err := s.save(ctx, repo, &entity.BookCorpus{
		Title:           req.Title,
		Contents:        req.Contents,
		Isbn:            req.Isbn,
		Authors:         authors,
		Publisher:       req.Publisher,
		Thumbnail:       req.Thumbnail,
		Keyword:         classification.PrimaryKeyword,
		Tags:            classification.Tags,
		UsedLLM:         classification.UsedLLM,
		SimilarityScore: 0,
		Embedding:       vector,
	})
	if err != nil {
		return err
	}

	if saved && !classification.UsedLLM && s.recorder != nil {
		s.recorder.RecordFailure(req.Isbn)
	}
	return nil
}

func (s *bookAIService) Classify(ctx context.Context, req *dto.ClassifyBookRequest) *dto.ClassifyBookResponse {
	classification := s.classifier.Classify(ctx, req.Title, req.Contents, req.Authors)
	return &classification
}

// save reports false without error when another writer stored the ISBN first.
func (s *bookAIService) save(ctx context.Context, repo contract.BookCorpusRepository, book *entity.BookCorpus) (bool, error) {
	if err := repo.Create(ctx, book); err != nil {
		if errors.Is(err, contract.ErrDuplicateIsbn) {
			return false, nil
		}
		s.logger.Error("INGEST", "Failed to save book", map[string]interface{}{
			"isbn":  book.Isbn,
			"error": err.Error(),
		})
		return false, err
	}
	return true, nil
}

func (s *bookAIService) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	res, err := s.embedder.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding")
	}
	return res.Embedding.Values, nil
}

func (s *bookAIService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("INGEST", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
