package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/llm"
)

const (
	contentsLimit = 360
	missingInfo   = "정보 없음"
)

const tagPrompt = `너는 도서 분류 전문가야. 아래 책 정보를 읽고 대표 키워드와 관련 태그를 JSON으로만 출력해.

요구사항:
1. primary_keyword에는 책을 가장 잘 대표하는 도메인/장르/주제를 간결하게 적어.
2. tags에는 도메인, 장르, 분위기, 난이도, 목적 등을 한글/영문 혼용으로 복수 개 작성해.
3. 시험 대비 교재나 학습서는 태그에 포함하지 말고, 그런 콘텐츠면 primary_keyword를 "교육"으로 설정해.

입력 정보:
제목: %s
저자: %s
요약: %s

JSON 스키마:
{
  "primary_keyword": "string",
  "tags": ["string", ...]
}

오직 JSON만 반환해.
`

// ProviderTagger implements LLMTagger on top of any chat provider.
type ProviderTagger struct {
	provider llm.LLMProvider
	model    string
	logger   logger.ILogger
}

var _ LLMTagger = &ProviderTagger{}

// NewProviderTagger returns a tagger that is disabled when provider is nil.
func NewProviderTagger(provider llm.LLMProvider, model string, log logger.ILogger) *ProviderTagger {
	return &ProviderTagger{
		provider: provider,
		model:    model,
		logger:   log,
	}
}

func (t *ProviderTagger) Enabled() bool {
	return t != nil && t.provider != nil
}

// WithModel returns a copy of t that asks a different model.
func (t *ProviderTagger) WithModel(model string) *ProviderTagger {
	clone := *t
	clone.model = model
	return &clone
}

func (t *ProviderTagger) ClassifyBook(ctx context.Context, title, contents, authors string) (*TagResult, error) {
	if !t.Enabled() {
		return nil, nil
	}

	prompt := fmt.Sprintf(tagPrompt, orMissing(title), orMissing(authors), truncate(contents, contentsLimit))

	opts := []llm.Option{llm.WithTemperature(0.2)}
	if t.model != "" {
		opts = append(opts, llm.WithModel(t.model))
	}

	response, err := t.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm tagger request: %w", err)
	}

	result, err := parseTagResponse(response)
	if err != nil {
		t.logger.Warn("LLMTagger", "Unusable tagger response", map[string]interface{}{
			"title":    title,
			"model":    t.model,
			"error":    err.Error(),
			"response": response,
		})
		return nil, nil
	}
	return result, nil
}

// parseTagResponse accepts tags as a list or a single string and ignores
// non-string entries.
func parseTagResponse(response string) (*TagResult, error) {
	cleaned := llm.StripCodeFence(response)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var raw struct {
		PrimaryKeyword interface{} `json:"primary_keyword"`
		Tags           interface{} `json:"tags"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result := &TagResult{Tags: []string{}}
	if primary, ok := raw.PrimaryKeyword.(string); ok {
		result.PrimaryKeyword = strings.TrimSpace(primary)
	}

	switch tags := raw.Tags.(type) {
	case string:
		if tag := strings.TrimSpace(tags); tag != "" {
			result.Tags = append(result.Tags, tag)
		}
	case []interface{}:
		for _, tag := range tags {
			if s, ok := tag.(string); ok && strings.TrimSpace(s) != "" {
				result.Tags = append(result.Tags, strings.TrimSpace(s))
			}
		}
	}

	if result.PrimaryKeyword == "" {
		return nil, fmt.Errorf("missing primary_keyword")
	}
	return result, nil
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingInfo
	}
	return s
}

func truncate(contents string, limit int) string {
	stripped := strings.TrimSpace(contents)
	if stripped == "" {
		return missingInfo
	}
	if utf8.RuneCountInString(stripped) <= limit {
		return stripped
	}
	return string([]rune(stripped)[:limit-3]) + "..."
}
