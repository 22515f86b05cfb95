package entity

import "time"

type BookCorpus struct {
	Id              int64
	Title           string
	Contents        string
	Isbn            string
	Authors         string
	Publisher       string
	Thumbnail       string
	Keyword         string
	Tags            []string
	UsedLLM         bool
	SimilarityScore float64
	Embedding       []float32
	CreatedAt       time.Time
}
