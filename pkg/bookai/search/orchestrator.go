package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/bookai/intent"
	"bookapp-ai-be/pkg/bookai/noise"
	"bookapp-ai-be/pkg/embedding"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("bookapp-ai-be/search")

// ErrQueryEmbedding means the query could not be embedded; no search ran.
var ErrQueryEmbedding = errors.New("could not generate embedding for the search query")

type Result struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Contents   string  `json:"contents"`
	Isbn       string  `json:"isbn"`
	Authors    string  `json:"authors"`
	Publisher  string  `json:"publisher"`
	Thumbnail  string  `json:"thumbnail"`
	Similarity float64 `json:"similarity"`
}

// VectorStore is the read side of the book corpus.
type VectorStore interface {
	// QueryBySimilarity returns rows whose cosine similarity to vector is
	// above threshold or whose keyword is in keywords, most similar first.
	QueryBySimilarity(ctx context.Context, vector []float32, threshold float64, keywords []string, limit int) ([]Result, error)
	// QueryByAuthorPattern returns rows whose whitespace-stripped authors
	// match the ILIKE pattern, newest first, skipping excludeIsbns.
	QueryByAuthorPattern(ctx context.Context, pattern string, excludeIsbns []string, limit int) ([]Result, error)
}

type IntentAnalyzer interface {
	Analyze(ctx context.Context, query string) intent.Metadata
}

type KeywordExpander interface {
	Expand(ctx context.Context, metadata intent.Metadata) []string
}

type PromptBuilder interface {
	Build(metadata intent.Metadata, originalQuery string) string
}

type Config struct {
	ResultLimit      int
	FetchLimit       int
	MaxKeywords      int
	DefaultThreshold float64
	AuthorThreshold  float64
}

func DefaultConfig() Config {
	return Config{
		ResultLimit:      20,
		FetchLimit:       60,
		MaxKeywords:      12,
		DefaultThreshold: 0.55,
		AuthorThreshold:  0.40,
	}
}

type Orchestrator struct {
	analyzer IntentAnalyzer
	expander KeywordExpander
	builder  PromptBuilder
	embedder embedding.EmbeddingProvider
	store    VectorStore
	config   Config
	logger   logger.ILogger
}

func NewOrchestrator(
	analyzer IntentAnalyzer,
	expander KeywordExpander,
	builder PromptBuilder,
	embedder embedding.EmbeddingProvider,
	store VectorStore,
	config Config,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		analyzer: analyzer,
		expander: expander,
		builder:  builder,
		embedder: embedder,
		store:    store,
		config:   config,
		logger:   log,
	}
}

// Search runs the intent-aware hybrid retrieval for query.
func (o *Orchestrator) Search(ctx context.Context, query string) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "search.Search")
	defer span.End()

	metadata := o.analyze(ctx, query)
	keywords := o.expand(ctx, metadata)
	prompt := o.builder.Build(metadata, query)
	threshold := o.resolveThreshold(metadata)

	span.SetAttributes(
		attribute.String("query_type", string(metadata.QueryType)),
		attribute.String("focus_author", metadata.FocusAuthor),
		attribute.Int("keyword_count", len(keywords)),
		attribute.Float64("threshold", threshold),
	)

	vector, err := o.embed(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query embedding failed")
		return nil, err
	}

	rows, err := o.querySimilar(ctx, vector, threshold, keywords)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "vector store query failed")
		return nil, err
	}

	results := filterNoise(rows)
	if metadata.FocusAuthor != "" {
		results = partitionByAuthor(results, metadata.FocusAuthor)
	}
	if len(results) > o.config.ResultLimit {
		results = results[:o.config.ResultLimit]
	}

	if metadata.FocusAuthor != "" && len(results) < o.config.ResultLimit {
		results = o.appendAuthorFallback(ctx, results, metadata.FocusAuthor)
	}

	span.SetAttributes(attribute.Int("result_count", len(results)))
	o.logger.Info("SearchOrchestrator", "Search completed", map[string]interface{}{
		"query":      query,
		"query_type": metadata.QueryType,
		"threshold":  threshold,
		"fetched":    len(rows),
		"returned":   len(results),
	})

	return results, nil
}

func (o *Orchestrator) analyze(ctx context.Context, query string) intent.Metadata {
	ctx, span := tracer.Start(ctx, "search.analyze")
	defer span.End()
	return o.analyzer.Analyze(ctx, query)
}

func (o *Orchestrator) expand(ctx context.Context, metadata intent.Metadata) []string {
	ctx, span := tracer.Start(ctx, "search.expand")
	defer span.End()

	keywords := o.expander.Expand(ctx, metadata)
	if o.config.MaxKeywords > 0 && len(keywords) > o.config.MaxKeywords {
		keywords = keywords[:o.config.MaxKeywords]
	}
	return keywords
}

// resolveThreshold is more permissive for author queries, where recall of
// the author's catalog matters more than topical precision.
func (o *Orchestrator) resolveThreshold(metadata intent.Metadata) float64 {
	if metadata.QueryType == intent.QueryTypeAuthor {
		return o.config.AuthorThreshold
	}
	return o.config.DefaultThreshold
}

func (o *Orchestrator) embed(ctx context.Context, prompt string) ([]float32, error) {
	ctx, span := tracer.Start(ctx, "search.embed")
	defer span.End()

	res, err := o.embedder.Generate(ctx, prompt, embedding.TaskRetrievalQuery)
	if err != nil {
		o.logger.Error("SearchOrchestrator", "Query embedding failed", map[string]interface{}{
			"prompt": prompt,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrQueryEmbedding, err)
	}
	if res == nil || len(res.Embedding.Values) == 0 {
		return nil, ErrQueryEmbedding
	}
	return res.Embedding.Values, nil
}

func (o *Orchestrator) querySimilar(ctx context.Context, vector []float32, threshold float64, keywords []string) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "search.query_similarity")
	defer span.End()

	rows, err := o.store.QueryBySimilarity(ctx, vector, threshold, keywords, o.config.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}

// appendAuthorFallback fills the remaining result slots with the author's
// newest books. Noise rows are dropped, so it pages until the slots are full
// or the store has nothing more for the author.
func (o *Orchestrator) appendAuthorFallback(ctx context.Context, results []Result, author string) []Result {
	ctx, span := tracer.Start(ctx, "search.author_fallback")
	defer span.End()

	exclude := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		exclude = append(exclude, r.Isbn)
		seen[r.Isbn] = struct{}{}
	}

	pattern := authorPattern(author)
	appended, pages := 0, 0
	for len(results) < o.config.ResultLimit {
		limit := o.config.FetchLimit
		if remaining := o.config.ResultLimit - len(results); remaining > limit {
			limit = remaining
		}

		rows, err := o.store.QueryByAuthorPattern(ctx, pattern, exclude, limit)
		pages++
		if err != nil {
			span.RecordError(err)
			o.logger.Warn("SearchOrchestrator", "Author fallback query failed", map[string]interface{}{
				"author": author,
				"error":  err.Error(),
			})
			break
		}

		fresh := 0
		for _, row := range rows {
			if _, dup := seen[row.Isbn]; dup {
				continue
			}
			seen[row.Isbn] = struct{}{}
			exclude = append(exclude, row.Isbn)
			fresh++

			if len(results) >= o.config.ResultLimit || isNoise(row) {
				continue
			}
			row.Similarity = 0
			results = append(results, row)
			appended++
		}

		if fresh == 0 || len(rows) < limit {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("appended", appended),
		attribute.Int("pages", pages),
	)
	return results
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// authorPattern matches the space-stripped author anywhere in the authors
// column. LIKE wildcards in the name match literally.
func authorPattern(author string) string {
	return "%" + likeEscaper.Replace(stripSpaces(author)) + "%"
}

func filterNoise(rows []Result) []Result {
	kept := make([]Result, 0, len(rows))
	for _, row := range rows {
		if isNoise(row) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func isNoise(row Result) bool {
	return noise.ContainsExclusionTerms(row.Title, row.Contents, row.Authors)
}

// partitionByAuthor moves rows written by author to the front. Both halves
// keep their incoming order.
func partitionByAuthor(rows []Result, author string) []Result {
	needle := strings.ToLower(stripSpaces(author))
	matched := make([]Result, 0, len(rows))
	others := make([]Result, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(stripSpaces(row.Authors)), needle) {
			matched = append(matched, row)
		} else {
			others = append(others, row)
		}
	}
	return append(matched, others...)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
