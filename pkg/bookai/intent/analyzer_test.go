package intent

import (
	"context"
	"errors"
	"testing"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAugmenter struct {
	result Augmentation
	err    error
	calls  int
}

func (s *stubAugmenter) Augment(context.Context, string, Metadata) (Augmentation, error) {
	s.calls++
	return s.result, s.err
}

type stubProvider struct {
	response string
	err      error
}

func (s stubProvider) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s stubProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		wantType        QueryType
		wantAuthor      string
		wantDomain      string
		wantGenre       string
		wantPurpose     string
		wantKeywords    []string
		wantConstraints []string
	}{
		{
			name:         "author with 작가",
			query:        "김영하 작가의 소설 추천해줘",
			wantType:     QueryTypeAuthor,
			wantAuthor:   "김영하",
			wantGenre:    "소설",
			wantKeywords: []string{"소설"},
		},
		{
			name:         "author without 작가",
			query:        "한강의 작품 알려줘",
			wantType:     QueryTypeAuthor,
			wantAuthor:   "한강",
			wantKeywords: []string{},
		},
		{
			name:         "mood token is not an author",
			query:        "감성 작가의 책 추천해줘",
			wantType:     QueryTypeMood,
			wantKeywords: []string{},
		},
		{
			name:            "domain and purpose",
			query:           "창업 관련 입문 책 추천해줘",
			wantType:        QueryTypeGeneral,
			wantDomain:      "비즈니스",
			wantPurpose:     "입문",
			wantKeywords:    []string{"비즈니스", "입문"},
			wantConstraints: []string{"입문"},
		},
		{
			name:            "synonymous domain phrasing",
			query:           "입문자를 위한 스타트업 책",
			wantType:        QueryTypeGeneral,
			wantDomain:      "비즈니스",
			wantPurpose:     "입문",
			wantKeywords:    []string{"비즈니스", "입문"},
			wantConstraints: []string{"입문"},
		},
		{
			name:         "multi-word genre wins",
			query:        "정치 소설 추천해줘",
			wantType:     QueryTypeGeneral,
			wantDomain:   "정치",
			wantGenre:    "정치 소설",
			wantKeywords: []string{"정치", "정치 소설"},
		},
		{
			name:         "similar cue",
			query:        "해리포터 같은 판타지",
			wantType:     QueryTypeSimilar,
			wantGenre:    "판타지",
			wantKeywords: []string{"판타지"},
		},
		{
			name:         "mood cue rejected as author",
			query:        "어두운 분위기의 책",
			wantType:     QueryTypeMood,
			wantKeywords: []string{},
		},
		{
			name:            "constraints keep original casing",
			query:           "최근 나온 한국 SF",
			wantType:        QueryTypeGeneral,
			wantGenre:       "SF",
			wantKeywords:    []string{"SF"},
			wantConstraints: []string{"최근", "한국"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRules(tt.query)

			assert.Equal(t, tt.query, got.RawQuery)
			assert.Equal(t, tt.wantType, got.QueryType)
			assert.Equal(t, tt.wantAuthor, got.FocusAuthor)
			assert.Equal(t, tt.wantDomain, got.Domain)
			assert.Equal(t, tt.wantGenre, got.Genre)
			assert.Equal(t, tt.wantPurpose, got.Purpose)
			assert.ElementsMatch(t, tt.wantKeywords, got.Keywords)
			assert.ElementsMatch(t, tt.wantConstraints, got.Constraints)
		})
	}
}

func TestParseRulesIsDeterministic(t *testing.T) {
	first := ParseRules("창업 관련 입문 책 추천해줘")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ParseRules("창업 관련 입문 책 추천해줘"))
	}
}

func TestExtractCustomGenre(t *testing.T) {
	assert.Equal(t, "무협 소설", extractCustomGenre("요즘 읽을 무협 소설"))
	assert.Equal(t, "", extractCustomGenre("창업 관련 소설"))
	assert.Equal(t, "", extractCustomGenre("소설 추천"))
	assert.Equal(t, "", extractCustomGenre("에세이 추천"))
}

func TestLexiconOrdering(t *testing.T) {
	for i := 1; i < len(genreLexicon); i++ {
		assert.GreaterOrEqual(t,
			len([]rune(genreLexicon[i-1].needle)),
			len([]rune(genreLexicon[i].needle)),
		)
	}

	position := map[string]int{}
	for i, e := range genreLexicon {
		position[e.needle] = i
	}
	assert.Less(t, position["정치 소설"], position["소설"])
}

func TestMetadataMerge(t *testing.T) {
	t.Run("scalars overwrite only when non-empty", func(t *testing.T) {
		m := Metadata{Domain: "금융", Tone: "감성", QueryType: QueryTypeMood}
		m.Merge(Augmentation{Domain: "", Tone: "힐링", Purpose: "입문"})

		assert.Equal(t, "금융", m.Domain)
		assert.Equal(t, "힐링", m.Tone)
		assert.Equal(t, "입문", m.Purpose)
		assert.Equal(t, QueryTypeMood, m.QueryType)
	})

	t.Run("lists union in first-seen order", func(t *testing.T) {
		m := Metadata{Keywords: []string{"a", "b"}, Constraints: []string{"최근"}}
		m.Merge(Augmentation{Keywords: []string{"b", "c", "", "a", "d"}, Constraints: []string{"최근", "한국"}})

		assert.Equal(t, []string{"a", "b", "c", "d"}, m.Keywords)
		assert.Equal(t, []string{"최근", "한국"}, m.Constraints)
	})

	t.Run("unknown query type ignored", func(t *testing.T) {
		m := Metadata{QueryType: QueryTypeSimilar}
		m.Merge(Augmentation{QueryType: "genre"})
		assert.Equal(t, QueryTypeSimilar, m.QueryType)
	})

	t.Run("focus author forces author type", func(t *testing.T) {
		m := Metadata{QueryType: QueryTypeGeneral}
		m.Merge(Augmentation{FocusAuthor: "김영하", QueryType: "mood"})
		assert.Equal(t, "김영하", m.FocusAuthor)
		assert.Equal(t, QueryTypeAuthor, m.QueryType)
	})

	t.Run("mood focus author rejected", func(t *testing.T) {
		m := Metadata{QueryType: QueryTypeMood}
		m.Merge(Augmentation{FocusAuthor: "감성", QueryType: "author"})
		assert.Empty(t, m.FocusAuthor)
		assert.Equal(t, QueryTypeGeneral, m.QueryType)
	})
}

func TestAnalyzerAugmentation(t *testing.T) {
	log := logger.NewNopLogger()

	t.Run("merges augmentation", func(t *testing.T) {
		aug := &stubAugmenter{result: Augmentation{Tone: "힐링", Keywords: []string{"에세이"}}}
		got := NewAnalyzer(aug, log).Analyze(context.Background(), "창업 관련 입문 책")

		assert.Equal(t, 1, aug.calls)
		assert.Equal(t, "힐링", got.Tone)
		assert.Equal(t, []string{"비즈니스", "입문", "에세이"}, got.Keywords)
	})

	t.Run("augmenter failure keeps rule result", func(t *testing.T) {
		aug := &stubAugmenter{err: errors.New("boom"), result: Augmentation{Tone: "x"}}
		got := NewAnalyzer(aug, log).Analyze(context.Background(), "김영하 작가의 소설")

		assert.Equal(t, QueryTypeAuthor, got.QueryType)
		assert.Equal(t, "김영하", got.FocusAuthor)
		assert.Empty(t, got.Tone)
	})

	t.Run("nil augmenter defaults to nop", func(t *testing.T) {
		got := NewAnalyzer(nil, log).Analyze(context.Background(), "  정치 소설  ")
		assert.Equal(t, "정치 소설", got.RawQuery)
	})
}

func TestLLMAugmenter(t *testing.T) {
	t.Run("decodes fenced json", func(t *testing.T) {
		provider := stubProvider{response: "```json\n{\"tone\":\"몰입감\",\"keywords\":[\"스릴러\"],\"unknown\":1}\n```"}
		got, err := NewLLMAugmenter(provider, "").Augment(context.Background(), "q", Metadata{})

		require.NoError(t, err)
		assert.Equal(t, "몰입감", got.Tone)
		assert.Equal(t, []string{"스릴러"}, got.Keywords)
	})

	t.Run("malformed response is an error", func(t *testing.T) {
		_, err := NewLLMAugmenter(stubProvider{response: "not json"}, "").Augment(context.Background(), "q", Metadata{})
		assert.Error(t, err)
	})

	t.Run("provider error is an error", func(t *testing.T) {
		_, err := NewLLMAugmenter(stubProvider{err: errors.New("down")}, "").Augment(context.Background(), "q", Metadata{})
		assert.Error(t, err)
	})
}
