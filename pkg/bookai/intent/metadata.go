package intent

// QueryType classifies the shape of a natural-language query.
type QueryType string

const (
	QueryTypeGeneral QueryType = "general"
	QueryTypeAuthor  QueryType = "author"
	QueryTypeSimilar QueryType = "similar"
	QueryTypeMood    QueryType = "mood"
)

// Valid reports whether q is one of the known query types.
func (q QueryType) Valid() bool {
	switch q {
	case QueryTypeGeneral, QueryTypeAuthor, QueryTypeSimilar, QueryTypeMood:
		return true
	}
	return false
}

// Metadata is the structured interpretation of a query. Empty strings mean
// "not detected".
type Metadata struct {
	RawQuery    string    `json:"raw_query"`
	Domain      string    `json:"domain,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Purpose     string    `json:"purpose,omitempty"`
	Tone        string    `json:"tone,omitempty"`
	QueryType   QueryType `json:"query_type"`
	FocusAuthor string    `json:"focus_author,omitempty"`
	Constraints []string  `json:"constraints"`
	Keywords    []string  `json:"keywords"`
}

// Augmentation is what an Augmenter may contribute to Metadata. Fields left
// empty contribute nothing.
type Augmentation struct {
	Domain      string   `json:"domain"`
	Genre       string   `json:"genre"`
	Purpose     string   `json:"purpose"`
	Tone        string   `json:"tone"`
	QueryType   string   `json:"query_type"`
	FocusAuthor string   `json:"focus_author"`
	Constraints []string `json:"constraints"`
	Keywords    []string `json:"keywords"`
}

// Merge folds an augmentation into m. List fields are union-appended in
// first-seen order, scalar fields are replaced only by non-empty values.
// FocusAuthor keeps its invariants: mood-lexicon names are rejected and a
// focus author always implies an author query.
func (m *Metadata) Merge(a Augmentation) {
	if a.Domain != "" {
		m.Domain = a.Domain
	}
	if a.Genre != "" {
		m.Genre = a.Genre
	}
	if a.Purpose != "" {
		m.Purpose = a.Purpose
	}
	if a.Tone != "" {
		m.Tone = a.Tone
	}
	if qt := QueryType(a.QueryType); qt.Valid() {
		m.QueryType = qt
	}
	if a.FocusAuthor != "" && !containsAnyToken(a.FocusAuthor, authorInvalidTokens) {
		m.FocusAuthor = a.FocusAuthor
	}
	m.Constraints = appendUnique(m.Constraints, a.Constraints...)
	m.Keywords = appendUnique(m.Keywords, a.Keywords...)

	if m.FocusAuthor != "" {
		m.QueryType = QueryTypeAuthor
	} else if m.QueryType == QueryTypeAuthor {
		m.QueryType = QueryTypeGeneral
	}
}

// appendUnique appends values not already present, skipping empty strings.
func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(values))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
