// FILE: pkg/bookai/intent/analyzer.go
// PURPOSE: Rule-based query understanding with an optional augmentation hook

package intent

import (
	"context"
	"regexp"
	"strings"

	"bookapp-ai-be/internal/pkg/logger"
)

// authorPattern captures "<name> [작가]의 (책|작품|소설)".
var authorPattern = regexp.MustCompile(`([\p{L}\p{N}_\s·]+?)\s*(?:작가)?\s*의\s*(?:책|작품|소설)`)

// Augmenter can enrich rule-based metadata, typically with an LLM.
type Augmenter interface {
	Augment(ctx context.Context, query string, current Metadata) (Augmentation, error)
}

// NopAugmenter contributes nothing.
type NopAugmenter struct{}

func (NopAugmenter) Augment(context.Context, string, Metadata) (Augmentation, error) {
	return Augmentation{}, nil
}

type Analyzer struct {
	augmenter Augmenter
	logger    logger.ILogger
}

func NewAnalyzer(augmenter Augmenter, log logger.ILogger) *Analyzer {
	if augmenter == nil {
		augmenter = NopAugmenter{}
	}
	return &Analyzer{
		augmenter: augmenter,
		logger:    log,
	}
}

// Analyze parses query into Metadata. Augmenter failures are logged and
// never abort the analysis.
func (a *Analyzer) Analyze(ctx context.Context, query string) Metadata {
	metadata := ParseRules(strings.TrimSpace(query))

	augmentation, err := a.augmenter.Augment(ctx, query, metadata)
	if err != nil {
		a.logger.Warn("IntentAnalyzer", "Augmentation failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return metadata
	}
	metadata.Merge(augmentation)

	return metadata
}

// ParseRules is the deterministic part of Analyze.
func ParseRules(query string) Metadata {
	lower := strings.ToLower(query)

	domain := matchLexicon(lower, domainLexicon)
	genre := matchLexicon(lower, genreLexicon)
	if genre == "" {
		genre = extractCustomGenre(lower)
	}
	tone := matchLexicon(lower, toneLexicon)
	purpose := matchLexicon(lower, purposeLexicon)

	constraints := []string{}
	for _, term := range constraintVocabulary {
		if strings.Contains(query, term) {
			constraints = append(constraints, term)
		}
	}

	focusAuthor := extractAuthor(query)

	queryType := QueryTypeGeneral
	switch {
	case focusAuthor != "":
		queryType = QueryTypeAuthor
	case containsAnyToken(query, similarCues):
		queryType = QueryTypeSimilar
	case containsAnyToken(query, moodCues):
		queryType = QueryTypeMood
	}

	return Metadata{
		RawQuery:    query,
		Domain:      domain,
		Genre:       genre,
		Purpose:     purpose,
		Tone:        tone,
		QueryType:   queryType,
		FocusAuthor: focusAuthor,
		Constraints: constraints,
		Keywords:    appendUnique(nil, domain, genre, purpose),
	}
}

func matchLexicon(text string, l lexicon) string {
	for _, e := range l {
		if strings.Contains(text, strings.ToLower(e.needle)) {
			return e.label
		}
	}
	return ""
}

// extractCustomGenre turns "... 역사 소설 ..." into "역사 소설".
func extractCustomGenre(text string) string {
	before, _, found := strings.Cut(text, "소설")
	if !found {
		return ""
	}
	tokens := strings.Fields(before)
	if len(tokens) == 0 {
		return ""
	}
	candidate := tokens[len(tokens)-1]
	if _, stop := customGenreStopwords[candidate]; stop {
		return ""
	}
	return candidate + " 소설"
}

func extractAuthor(query string) string {
	match := authorPattern.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	candidate := strings.TrimSpace(match[1])
	if containsAnyToken(candidate, authorInvalidTokens) {
		return ""
	}
	return candidate
}

func containsAnyToken(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
