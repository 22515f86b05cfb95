package tagger

import (
	"context"
	"strings"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/bookai/intent"
)

// DefaultKeyword is the primary keyword when nothing else can be derived.
const DefaultKeyword = "user_added"

type Classification struct {
	PrimaryKeyword string          `json:"primary_keyword"`
	Tags           []string        `json:"tags"`
	Intent         intent.Metadata `json:"intent"`
	UsedLLM        bool            `json:"used_llm"`
}

// TagResult is a usable answer from an LLMTagger.
type TagResult struct {
	PrimaryKeyword string   `json:"primary_keyword"`
	Tags           []string `json:"tags"`
}

// LLMTagger tags a book with a language model. (nil, nil) means the model
// gave no usable answer.
type LLMTagger interface {
	Enabled() bool
	ClassifyBook(ctx context.Context, title, contents, authors string) (*TagResult, error)
}

// Analyzer is the part of intent.Analyzer the classifier needs.
type Analyzer interface {
	Analyze(ctx context.Context, query string) intent.Metadata
}

type Classifier struct {
	analyzer Analyzer
	tagger   LLMTagger
	logger   logger.ILogger
}

func NewClassifier(analyzer Analyzer, tagger LLMTagger, log logger.ILogger) *Classifier {
	return &Classifier{
		analyzer: analyzer,
		tagger:   tagger,
		logger:   log,
	}
}

// Classify tags a book with the LLM tagger when it answers, and with the
// intent rules otherwise. UsedLLM reports which path produced the result.
func (c *Classifier) Classify(ctx context.Context, title, contents, authors string) Classification {
	metadata := c.analyzer.Analyze(ctx, composeQuery(title, contents, authors))

	if result := c.askTagger(ctx, title, contents, authors); result != nil {
		return Classification{
			PrimaryKeyword: result.PrimaryKeyword,
			Tags:           withPrimary(result.PrimaryKeyword, result.Tags),
			Intent:         metadata,
			UsedLLM:        true,
		}
	}

	primary := resolvePrimary(metadata)
	return Classification{
		PrimaryKeyword: primary,
		Tags:           withPrimary(primary, collectTags(metadata)),
		Intent:         metadata,
		UsedLLM:        false,
	}
}

// ClassifyWithFallback is Classify for ingestion: the keyword a book was
// collected under always ends up among its tags.
func (c *Classifier) ClassifyWithFallback(ctx context.Context, title, contents, authors, fallbackKeyword string) Classification {
	classification := c.Classify(ctx, title, contents, authors)
	if fallbackKeyword != "" {
		classification.Tags = dedup(append(classification.Tags, fallbackKeyword))
	}
	return classification
}

func (c *Classifier) askTagger(ctx context.Context, title, contents, authors string) *TagResult {
	if c.tagger == nil || !c.tagger.Enabled() {
		return nil
	}

	result, err := c.tagger.ClassifyBook(ctx, title, contents, authors)
	if err != nil {
		c.logger.Warn("Classifier", "LLM tagger failed, using rule-based tags", map[string]interface{}{
			"title": title,
			"error": err.Error(),
		})
		return nil
	}
	if result == nil || strings.TrimSpace(result.PrimaryKeyword) == "" {
		return nil
	}
	return result
}

func composeQuery(title, contents, authors string) string {
	parts := make([]string, 0, 3)
	if title != "" {
		parts = append(parts, "제목: "+title)
	}
	if authors != "" {
		parts = append(parts, "저자: "+authors)
	}
	if contents != "" {
		parts = append(parts, "내용: "+contents)
	}
	return strings.Join(parts, "\n")
}

func resolvePrimary(m intent.Metadata) string {
	for _, v := range []string{m.Domain, m.Genre, m.Purpose} {
		if v != "" {
			return v
		}
	}
	return DefaultKeyword
}

func collectTags(m intent.Metadata) []string {
	tags := []string{m.Domain, m.Genre, m.Purpose, m.Tone}
	return dedup(append(tags, m.Constraints...))
}

// withPrimary puts the primary keyword in front of tags that lack it.
func withPrimary(primary string, tags []string) []string {
	tags = dedup(tags)
	for _, tag := range tags {
		if tag == primary {
			return tags
		}
	}
	return dedup(append([]string{primary}, tags...))
}

// dedup drops empty and repeated tags, keeping first-seen order.
func dedup(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		unique = append(unique, tag)
	}
	return unique
}
