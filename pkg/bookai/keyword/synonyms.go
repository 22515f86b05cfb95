package keyword

// synonyms maps a lower-cased seed term to related search terms.
var synonyms = map[string][]string{
	"비즈니스":  {"창업", "스타트업", "기업가정신", "business"},
	"금융":    {"재테크", "투자", "finance", "주식"},
	"에세이":   {"힐링", "산문", "essay"},
	"심리":    {"마음", "정서", "psychology"},
	"철학":    {"사유", "철학적", "philosophy"},
	"정치":    {"정치학", "politics", "사회"},
	"sf":    {"공상과학", "sci-fi", "science fiction"},
	"판타지":   {"fantasy", "이세계"},
	"로맨스":   {"연애소설", "romance"},
	"스릴러":   {"thriller", "서스펜스"},
	"미스터리":  {"mystery", "추리"},
	"입문":    {"기초", "beginner", "starter"},
	"심화":    {"전문", "advanced"},
	"힐링":    {"잔잔한", "따뜻한", "comforting"},
	"정치 소설": {"political fiction", "사회풍자 소설"},
	"소설":    {"novel", "fiction"},
	"디스토피아": {"dystopia", "디스토피아적", "디스토피아적인"},
}
