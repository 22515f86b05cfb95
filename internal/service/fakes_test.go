package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/internal/repository/specification"
	"bookapp-ai-be/internal/repository/unitofwork"
	"bookapp-ai-be/pkg/bookai/search"
	"bookapp-ai-be/pkg/bookai/tagger"
	"bookapp-ai-be/pkg/booksearch"
	"bookapp-ai-be/pkg/embedding"
	"bookapp-ai-be/pkg/events"
)

// fakeBookRepo keeps books keyed by ISBN. Specifications are matched by type.
type fakeBookRepo struct {
	mu        sync.Mutex
	books     map[string]*entity.BookCorpus
	nextId    int64
	createErr error
	commits   int
	scored    []*contract.ScoredBook
	byAuthor  []*entity.BookCorpus
	lastQuery struct {
		threshold float64
		keywords  []string
		limit     int
		pattern   string
		exclude   []string
	}
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[string]*entity.BookCorpus)}
}

func (r *fakeBookRepo) Create(_ context.Context, book *entity.BookCorpus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.books[book.Isbn]; ok {
		return contract.ErrDuplicateIsbn
	}
	r.nextId++
	book.Id = r.nextId
	stored := *book
	r.books[book.Isbn] = &stored
	return nil
}

func (r *fakeBookRepo) UpdateClassification(_ context.Context, isbn, keyword string, tags []string, usedLLM bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[isbn]
	if !ok {
		return errors.New("not found")
	}
	book.Keyword = keyword
	book.Tags = tags
	book.UsedLLM = usedLLM
	return nil
}

func (r *fakeBookRepo) ExistsByIsbn(_ context.Context, isbn string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.books[isbn]
	return ok, nil
}

func (r *fakeBookRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.BookCorpus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match *entity.BookCorpus
	fallbackOnly := false
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByIsbn:
			match = r.books[sp.Isbn]
		case specification.FallbackTagged:
			fallbackOnly = true
		}
	}
	if match == nil || (fallbackOnly && match.UsedLLM) {
		return nil, nil
	}
	copied := *match
	return &copied, nil
}

func (r *fakeBookRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.BookCorpus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.BookCorpus, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) SearchSimilarWithScore(_ context.Context, _ []float32, threshold float64, keywords []string, limit int) ([]*contract.ScoredBook, error) {
	r.lastQuery.threshold = threshold
	r.lastQuery.keywords = keywords
	r.lastQuery.limit = limit
	return r.scored, nil
}

func (r *fakeBookRepo) SearchByAuthorPattern(_ context.Context, pattern string, excludeIsbns []string, _ int) ([]*entity.BookCorpus, error) {
	r.lastQuery.pattern = pattern
	r.lastQuery.exclude = excludeIsbns
	return r.byAuthor, nil
}

func (r *fakeBookRepo) get(isbn string) *entity.BookCorpus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[isbn]
}

type fakeUnitOfWork struct {
	repo *fakeBookRepo
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error {
	u.repo.mu.Lock()
	u.repo.commits++
	u.repo.mu.Unlock()
	return nil
}
func (u *fakeUnitOfWork) Rollback() error { return nil }
func (u *fakeUnitOfWork) BookCorpusRepository() contract.BookCorpusRepository {
	return u.repo
}

type fakeFactory struct {
	repo *fakeBookRepo
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{repo: f.repo}
}

// fakeBookProvider serves pages per keyword; missing pages are empty.
type fakeBookProvider struct {
	pages map[string][][]booksearch.Book
	err   error
	calls []int
}

func (p *fakeBookProvider) Search(_ context.Context, keyword string, page int) ([]booksearch.Book, error) {
	p.calls = append(p.calls, page)
	if p.err != nil {
		return nil, p.err
	}
	pages := p.pages[keyword]
	if page-1 >= len(pages) {
		return nil, nil
	}
	return pages[page-1], nil
}

// fakeEmbedder answers query-task calls with the anchor and document-task
// calls with the first vector whose marker appears in the text.
type fakeEmbedder struct {
	anchor   []float32
	markers  []string
	vectors  map[string][]float32
	fallback []float32
	failOn   string
}

func (e *fakeEmbedder) Generate(_ context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embedding failed")
	}
	values := e.fallback
	if taskType == embedding.TaskRetrievalQuery {
		values = e.anchor
	} else {
		for _, marker := range e.markers {
			if strings.Contains(text, marker) {
				values = e.vectors[marker]
				break
			}
		}
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: values}}, nil
}

type fakeClassifier struct {
	usedLLM bool
	keyword string
	calls   []string
}

func (c *fakeClassifier) Classify(_ context.Context, title, _, _ string) tagger.Classification {
	c.calls = append(c.calls, title)
	return tagger.Classification{PrimaryKeyword: c.keyword, Tags: []string{c.keyword}, UsedLLM: c.usedLLM}
}

func (c *fakeClassifier) ClassifyWithFallback(ctx context.Context, title, contents, authors, fallback string) tagger.Classification {
	out := c.Classify(ctx, title, contents, authors)
	if fallback != "" && fallback != c.keyword {
		out.Tags = append(out.Tags, fallback)
	}
	return out
}

type fakeRecorder struct {
	mu    sync.Mutex
	isbns []string
}

func (r *fakeRecorder) RecordFailure(isbn string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isbns = append(r.isbns, isbn)
}

type fakePublisher struct {
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

type fakeSearcher struct {
	results []search.Result
	err     error
	calls   int
}

func (s *fakeSearcher) Search(context.Context, string) ([]search.Result, error) {
	s.calls++
	return s.results, s.err
}
