package intent

import (
	"sort"
	"unicode/utf8"
)

type entry struct {
	needle string
	label  string
}

// lexicon is scanned longest needle first so multi-word phrases win over the
// single words they contain. Equal lengths keep declaration order.
type lexicon []entry

func newLexicon(entries ...entry) lexicon {
	l := make(lexicon, len(entries))
	copy(l, entries)
	sort.SliceStable(l, func(i, j int) bool {
		return utf8.RuneCountInString(l[i].needle) > utf8.RuneCountInString(l[j].needle)
	})
	return l
}

var domainLexicon = newLexicon(
	entry{"창업", "비즈니스"},
	entry{"스타트업", "비즈니스"},
	entry{"기업", "비즈니스"},
	entry{"비즈니스", "비즈니스"},
	entry{"재테크", "금융"},
	entry{"투자", "금융"},
	entry{"주식", "금융"},
	entry{"경제", "금융"},
	entry{"정치", "정치"},
	entry{"힐링", "에세이"},
	entry{"회고", "에세이"},
	entry{"심리", "심리"},
	entry{"철학", "철학"},
)

var genreLexicon = newLexicon(
	entry{"sf", "SF"},
	entry{"공상 과학", "SF"},
	entry{"판타지", "판타지"},
	entry{"로맨스", "로맨스"},
	entry{"스릴러", "스릴러"},
	entry{"추리", "미스터리"},
	entry{"에세이", "에세이"},
	entry{"논픽션", "논픽션"},
	entry{"소설", "소설"},
	entry{"정치 소설", "정치 소설"},
)

var toneLexicon = newLexicon(
	entry{"감성", "감성"},
	entry{"따뜻", "힐링"},
	entry{"잔잔", "힐링"},
	entry{"몰입", "몰입감"},
	entry{"긴장", "스릴"},
)

var purposeLexicon = newLexicon(
	entry{"입문", "입문"},
	entry{"초보", "입문"},
	entry{"기초", "입문"},
	entry{"심화", "심화"},
	entry{"전문", "전문"},
	entry{"실전", "실전"},
	entry{"준비", "대비"},
)

var (
	similarCues = []string{"같은", "비슷한"}
	moodCues    = []string{"분위기", "느낌", "감성", "무드"}

	// authorInvalidTokens never name a person; "감성 작가의 책" is a mood query.
	authorInvalidTokens = []string{"분위기", "느낌", "감성", "무드", "주제", "테마"}

	constraintVocabulary = []string{"최근", "신간", "짧은", "두꺼운", "한국", "번역", "입문", "심화"}

	customGenreStopwords = map[string]struct{}{"관련": {}, "같은": {}}
)
