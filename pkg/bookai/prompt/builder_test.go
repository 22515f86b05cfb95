package prompt

import (
	"testing"

	"bookapp-ai-be/pkg/bookai/intent"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		metadata intent.Metadata
		query    string
		want     string
	}{
		{
			name:     "author",
			metadata: intent.Metadata{QueryType: intent.QueryTypeAuthor, FocusAuthor: "김영하"},
			query:    "김영하 작가의 소설",
			want: "김영하 작가가 집필한 대표적인 작품과 문학적 분위기가 비슷한 책을 알려줘. " +
				"동일 작가의 다른 장르도 함께 고려하고, 시험 대비 교재나 학습서는 제외해.",
		},
		{
			name:     "mood with constraints",
			metadata: intent.Metadata{QueryType: intent.QueryTypeMood, Tone: "힐링", Constraints: []string{"짧은", "한국"}},
			query:    "따뜻한 분위기",
			want:     "독자가 '힐링' 감성을 느낄 수 있는 책을 소개해줘. 제약: 짧은, 한국",
		},
		{
			name:     "mood without constraints",
			metadata: intent.Metadata{QueryType: intent.QueryTypeMood, Tone: "감성"},
			want:     "독자가 '감성' 감성을 느낄 수 있는 책을 소개해줘.",
		},
		{
			name:     "similar quotes trimmed query",
			metadata: intent.Metadata{QueryType: intent.QueryTypeSimilar},
			query:    "  해리포터 같은 책 ",
			want: "아래 설명과 유사한 주제/분위기의 책을 찾아줘: '해리포터 같은 책'. " +
				"학습 교재는 제외하고 서사 중심 작품을 위주로 알려줘.",
		},
		{
			name:     "domain with default purpose",
			metadata: intent.Metadata{QueryType: intent.QueryTypeGeneral, Domain: "금융"},
			want:     "금융 분야에서 관심 있는 독자에게 적합한 책을 추천해줘. 실용성과 실제 사례를 포함하면 좋겠어.",
		},
		{
			name:     "domain with purpose and constraints",
			metadata: intent.Metadata{QueryType: intent.QueryTypeGeneral, Domain: "비즈니스", Purpose: "입문", Constraints: []string{"입문"}},
			want:     "비즈니스 분야에서 입문 독자에게 적합한 책을 추천해줘. 실용성과 실제 사례를 포함하면 좋겠어. 제약: 입문",
		},
		{
			name:     "general fallback",
			metadata: intent.Metadata{QueryType: intent.QueryTypeGeneral, Genre: "SF", Tone: "몰입감", Constraints: []string{"최근"}},
			query:    "우주 이야기 ",
			want: "다음 요구사항을 충족하는 책을 추천해줘: 우주 이야기; 장르: SF; 감성: 몰입감; 제약: 최근. " +
				"시험 대비 교재나 학습서는 제외하고 문학성과 인사이트가 있는 도서를 우선 제안해.",
		},
		{
			name:     "author type without author falls through",
			metadata: intent.Metadata{QueryType: intent.QueryTypeAuthor, Domain: "철학", Purpose: "심화"},
			want:     "철학 분야에서 심화 독자에게 적합한 책을 추천해줘. 실용성과 실제 사례를 포함하면 좋겠어.",
		},
		{
			name:     "mood without tone falls through",
			metadata: intent.Metadata{QueryType: intent.QueryTypeMood},
			query:    "어두운 분위기의 책",
			want: "다음 요구사항을 충족하는 책을 추천해줘: 어두운 분위기의 책. " +
				"시험 대비 교재나 학습서는 제외하고 문학성과 인사이트가 있는 도서를 우선 제안해.",
		},
	}

	b := NewBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Build(tt.metadata, tt.query))
		})
	}
}
