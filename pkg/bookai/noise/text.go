package noise

import (
	"fmt"
	"strings"
)

// keywordPrompts are hand written anchors for keywords whose literal form
// embeds poorly.
var keywordPrompts = map[string]string{
	"sf":       "이 책은 공상 과학 소설(SF) 장르에 속하며 미래 기술과 상상력을 다룹니다.",
	"fantasy":  "이 책은 판타지 세계관을 배경으로 한 소설입니다. 마법과 모험이 가득합니다.",
	"romance":  "이 책은 사랑과 관계를 중심으로 한 로맨스 소설입니다.",
	"thriller": "이 책은 긴장감 넘치는 전개가 특징인 스릴러 장르 소설입니다.",
}

const defaultKeywordPrompt = "이 책은 '%s' 주제와 깊이 관련된 도서입니다. 독자에게 %s에 대한 통찰과 경험을 제공합니다."

// FormatAuthors joins non-empty author names with ", ".
func FormatAuthors(authors []string) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	return strings.Join(names, ", ")
}

// BuildKeywordPrompt renders the anchor text an ingestion keyword is embedded
// with; books are kept when they are similar enough to it.
func BuildKeywordPrompt(keyword string) string {
	normalized := strings.TrimSpace(keyword)
	if normalized == "" {
		return "이 책은 다양한 주제를 다루는 도서입니다."
	}
	if prompt, ok := keywordPrompts[strings.ToLower(normalized)]; ok {
		return prompt
	}
	return fmt.Sprintf(defaultKeywordPrompt, normalized, normalized)
}

// BuildBookText renders the document text a corpus entry is embedded with.
func BuildBookText(title, contents string, authors []string) string {
	base := "이 책은 다양한 작가의 관점을 담고 있습니다."
	if authorText := FormatAuthors(authors); authorText != "" {
		base = fmt.Sprintf("이 책은 %s 작가가 쓴 책입니다.", authorText)
	}
	if strings.TrimSpace(contents) == "" {
		contents = "이 책에 대한 상세 설명은 제공되지 않았습니다."
	}
	return fmt.Sprintf("%s 제목: %s. 내용: %s", base, title, contents)
}
