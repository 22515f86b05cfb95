package intent

import (
	"context"
	"encoding/json"
	"fmt"

	"bookapp-ai-be/pkg/llm"
)

const augmentPrompt = `너는 도서 검색 질의 분석기야. 아래 질의와 규칙 기반 분석 결과를 보고 빠진 정보를 JSON으로만 보완해.

질의: %s
현재 분석: %s

JSON 스키마:
{
  "domain": "string",
  "genre": "string",
  "purpose": "string",
  "tone": "string",
  "query_type": "general | author | similar | mood",
  "focus_author": "string",
  "constraints": ["string", ...],
  "keywords": ["string", ...]
}

모르는 필드는 빈 문자열이나 빈 배열로 둬. 오직 JSON만 반환해.`

// LLMAugmenter asks a chat model to fill in what the rules missed.
type LLMAugmenter struct {
	provider llm.LLMProvider
	model    string
}

func NewLLMAugmenter(provider llm.LLMProvider, model string) *LLMAugmenter {
	return &LLMAugmenter{provider: provider, model: model}
}

func (a *LLMAugmenter) Augment(ctx context.Context, query string, current Metadata) (Augmentation, error) {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return Augmentation{}, fmt.Errorf("marshal metadata: %w", err)
	}

	opts := []llm.Option{llm.WithTemperature(0), llm.WithJSONMode()}
	if a.model != "" {
		opts = append(opts, llm.WithModel(a.model))
	}

	response, err := a.provider.Generate(ctx, fmt.Sprintf(augmentPrompt, query, currentJSON), opts...)
	if err != nil {
		return Augmentation{}, fmt.Errorf("augment query: %w", err)
	}

	var augmentation Augmentation
	if err := json.Unmarshal([]byte(llm.ExtractJSON(response)), &augmentation); err != nil {
		return Augmentation{}, fmt.Errorf("decode augmentation: %w", err)
	}

	return augmentation, nil
}
