package prompt

import (
	"fmt"
	"strings"

	"bookapp-ai-be/pkg/bookai/intent"
)

const (
	defaultTemplate = "다음 요구사항을 충족하는 책을 추천해줘: %s. " +
		"시험 대비 교재나 학습서는 제외하고 문학성과 인사이트가 있는 도서를 우선 제안해."

	authorTemplate = "%s 작가가 집필한 대표적인 작품과 문학적 분위기가 비슷한 책을 알려줘. " +
		"동일 작가의 다른 장르도 함께 고려하고, 시험 대비 교재나 학습서는 제외해."

	moodTemplate = "독자가 '%s' 감성을 느낄 수 있는 책을 소개해줘.%s"

	similarTemplate = "아래 설명과 유사한 주제/분위기의 책을 찾아줘: '%s'. " +
		"학습 교재는 제외하고 서사 중심 작품을 위주로 알려줘."

	domainTemplate = "%s 분야에서 %s 독자에게 적합한 책을 추천해줘. " +
		"실용성과 실제 사례를 포함하면 좋겠어."

	defaultPurposeClause = "관심 있는"
)

// Builder rewrites a query into the text that gets embedded for search.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Build(m intent.Metadata, originalQuery string) string {
	switch {
	case m.QueryType == intent.QueryTypeAuthor && m.FocusAuthor != "":
		return fmt.Sprintf(authorTemplate, m.FocusAuthor)

	case m.QueryType == intent.QueryTypeMood && m.Tone != "":
		extra := ""
		if clause := constraintClause(m); clause != "" {
			extra = " " + clause
		}
		return fmt.Sprintf(moodTemplate, m.Tone, extra)

	case m.QueryType == intent.QueryTypeSimilar:
		return fmt.Sprintf(similarTemplate, strings.TrimSpace(originalQuery))

	case m.Domain != "":
		purpose := m.Purpose
		if purpose == "" {
			purpose = defaultPurposeClause
		}
		built := fmt.Sprintf(domainTemplate, m.Domain, purpose)
		return strings.TrimSpace(built + " " + constraintClause(m))
	}

	return fmt.Sprintf(defaultTemplate, strings.Join(requirements(m, originalQuery), "; "))
}

func requirements(m intent.Metadata, originalQuery string) []string {
	reqs := []string{}
	if q := strings.TrimSpace(originalQuery); q != "" {
		reqs = append(reqs, q)
	}
	if m.Genre != "" {
		reqs = append(reqs, "장르: "+m.Genre)
	}
	if m.Tone != "" {
		reqs = append(reqs, "감성: "+m.Tone)
	}
	if m.Purpose != "" {
		reqs = append(reqs, "목적: "+m.Purpose)
	}
	if clause := constraintClause(m); clause != "" {
		reqs = append(reqs, clause)
	}
	return reqs
}

func constraintClause(m intent.Metadata) string {
	if len(m.Constraints) == 0 {
		return ""
	}
	return "제약: " + strings.Join(m.Constraints, ", ")
}
