package booksearch

import (
	"context"
	"strings"
)

// Book is a raw record from an external book search API.
type Book struct {
	Title       string   `json:"title"`
	Contents    string   `json:"contents"`
	Isbn        string   `json:"isbn"`
	Authors     []string `json:"authors"`
	Translators []string `json:"translators"`
	Publisher   string   `json:"publisher"`
	Thumbnail   string   `json:"thumbnail"`
	Datetime    string   `json:"datetime"`
	URL         string   `json:"url"`
}

// Provider searches an external catalog. An empty page means there are no
// more results.
type Provider interface {
	Search(ctx context.Context, keyword string, page int) ([]Book, error)
}

// Isbn13 returns the second token of the provider's "ISBN10 ISBN13" field.
// Records without it are reported as false.
func (b Book) Isbn13() (string, bool) {
	fields := strings.Fields(b.Isbn)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}
