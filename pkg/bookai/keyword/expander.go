package keyword

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/bookai/intent"
	"bookapp-ai-be/pkg/llm"
)

// Suggester contributes extra related terms for a query intent.
type Suggester interface {
	Suggest(ctx context.Context, metadata intent.Metadata) ([]string, error)
}

type NopSuggester struct{}

func (NopSuggester) Suggest(context.Context, intent.Metadata) ([]string, error) {
	return nil, nil
}

// Expander turns query intent into the hybrid keyword list used for lexical
// matching against book_corpus.keyword.
type Expander struct {
	suggester Suggester
	logger    logger.ILogger
}

func NewExpander(suggester Suggester, log logger.ILogger) *Expander {
	if suggester == nil {
		suggester = NopSuggester{}
	}
	return &Expander{suggester: suggester, logger: log}
}

// Expand returns every seed term, then their synonyms, then any suggested
// terms, de-duplicated. Seeds keep their field order so a length cap applied
// by the caller trims synonyms first.
func (e *Expander) Expand(ctx context.Context, metadata intent.Metadata) []string {
	seeds := collectSeeds(metadata)
	terms := newTermList()

	for _, seed := range seeds {
		terms.add(seed)
	}
	for _, seed := range seeds {
		terms.add(synonyms[strings.ToLower(seed)]...)
	}

	suggested, err := e.suggester.Suggest(ctx, metadata)
	if err != nil {
		e.logger.Warn("KeywordExpander", "Suggester failed", map[string]interface{}{
			"query": metadata.RawQuery,
			"error": err.Error(),
		})
	}
	for _, term := range suggested {
		terms.add(strings.TrimSpace(term))
	}

	return terms.items
}

type termList struct {
	seen  map[string]struct{}
	items []string
}

func newTermList() *termList {
	return &termList{seen: make(map[string]struct{})}
}

func (l *termList) add(terms ...string) {
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, ok := l.seen[term]; ok {
			continue
		}
		l.seen[term] = struct{}{}
		l.items = append(l.items, term)
	}
}

// collectSeeds de-duplicates case-insensitively, keeping the first spelling.
func collectSeeds(m intent.Metadata) []string {
	values := []string{m.Domain, m.Genre, m.Purpose, m.Tone}
	values = append(values, m.Constraints...)
	values = append(values, m.Keywords...)

	seen := make(map[string]struct{}, len(values))
	seeds := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		seeds = append(seeds, v)
	}
	return seeds
}

const suggestPrompt = `다음 도서 검색 의도와 관련된 검색 키워드를 최대 8개까지 한국어 또는 영어로 제안해.

질의: %s
도메인: %s
장르: %s
분위기: %s
목적: %s

문자열 JSON 배열만 반환해. 예: ["키워드1", "키워드2"]`

// LLMSuggester asks a chat model for related keywords.
type LLMSuggester struct {
	provider llm.LLMProvider
	model    string
}

func NewLLMSuggester(provider llm.LLMProvider, model string) *LLMSuggester {
	return &LLMSuggester{provider: provider, model: model}
}

func (s *LLMSuggester) Suggest(ctx context.Context, m intent.Metadata) ([]string, error) {
	prompt := fmt.Sprintf(suggestPrompt, m.RawQuery, m.Domain, m.Genre, m.Tone, m.Purpose)

	opts := []llm.Option{llm.WithTemperature(0.3)}
	if s.model != "" {
		opts = append(opts, llm.WithModel(s.model))
	}

	response, err := s.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("suggest keywords: %w", err)
	}

	var terms []string
	if err := json.Unmarshal([]byte(llm.ExtractJSON(response)), &terms); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	return terms, nil
}
