package specification

import "gorm.io/gorm"

// ByIsbn filters by ISBN-13
type ByIsbn struct {
	Isbn string
}

func (s ByIsbn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("isbn = ?", s.Isbn)
}

// ByIsbns filters by a list of ISBNs
type ByIsbns struct {
	Isbns []string
}

func (s ByIsbns) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("isbn IN ?", s.Isbns)
}

// ExcludeIsbns is a no-op for an empty list
type ExcludeIsbns struct {
	Isbns []string
}

func (s ExcludeIsbns) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Isbns) == 0 {
		return db
	}
	return db.Where("isbn NOT IN ?", s.Isbns)
}

// AuthorLike matches the authors column with spaces removed, case-insensitively.
type AuthorLike struct {
	Pattern string
}

func (s AuthorLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("REPLACE(authors, ' ', '') ILIKE ?", s.Pattern)
}

// FallbackTagged selects rows classified without the LLM
type FallbackTagged struct{}

func (s FallbackTagged) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("used_llm = ?", false)
}
