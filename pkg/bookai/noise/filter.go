// FILE: pkg/bookai/noise/filter.go
// PURPOSE: Reject exam/workbook style books at ingestion and search time

package noise

import "strings"

// strictTerms almost always indicate 학습/문제집 계열 도서.
var strictTerms = []string{
	"수능",
	"모의고사",
	"기출",
	"시험대비",
	"정답지",
	"정답 해설",
	"족보",
	"워크북",
	"교재",
	"문제집",
	"단원평가",
	"자이스토리",
	"내신",
}

// comboLeads only exclude a book when any comboTrailers term is also present.
var comboLeads = []string{
	"중학",
	"중학교",
	"초등",
	"초등학교",
	"고등",
	"고등학교",
	"중등",
	"국어",
	"수학",
	"사회",
	"과학",
}

var comboTrailers = []string{
	"문제집",
	"독해",
	"교과서",
	"자습서",
	"기출",
	"모의고사",
	"수능",
	"내신",
	"평가",
	"학년",
}

// Book is the minimal view of a raw provider record the filter needs.
type Book struct {
	Title    string
	Contents string
	Authors  []string
}

// ContainsExclusionTerms reports whether the concatenated chunks look like
// exam or workbook material. Lead and trailer terms only need to co-occur
// somewhere in the text, not next to each other.
func ContainsExclusionTerms(chunks ...string) bool {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, strings.ToLower(strings.TrimSpace(chunk)))
	}
	target := strings.Join(parts, " ")

	if containsAny(target, strictTerms) {
		return true
	}
	return containsAny(target, comboLeads) && containsAny(target, comboTrailers)
}

// ShouldSkipBook gates raw provider records before they are embedded.
// Records with neither contents nor authors are treated as noise rows.
func ShouldSkipBook(book Book) bool {
	if ContainsExclusionTerms(book.Title, book.Contents) {
		return true
	}
	return strings.TrimSpace(book.Contents) == "" && FormatAuthors(book.Authors) == ""
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
