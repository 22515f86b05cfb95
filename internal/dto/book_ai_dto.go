package dto

import (
	"bookapp-ai-be/pkg/bookai/search"
	"bookapp-ai-be/pkg/bookai/tagger"
)

type AISearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

type AISearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Cached  bool            `json:"cached"`
}

type KeywordRequest struct {
	Keywords []string `json:"keywords" validate:"min=1,max=50,dive,required"`
}

type IngestJobResponse struct {
	JobId    string   `json:"job_id"`
	Keywords []string `json:"keywords,omitempty"`
	Isbn     string   `json:"isbn,omitempty"`
}

type IngestResult struct {
	JobId             string  `json:"job_id,omitempty"`
	ProcessedKeywords int     `json:"processed_keywords"`
	TotalSaved        int     `json:"total_books_saved"`
	AverageSimilarity float64 `json:"average_similarity"`
}

const (
	IngestJobKeywords   = "keywords"
	IngestJobSingleBook = "single_book"
)

// PublishIngestJobMessage is the payload of an async ingestion job.
type PublishIngestJobMessage struct {
	JobId    string             `json:"job_id"`
	Kind     string             `json:"kind"`
	Keywords []string           `json:"keywords,omitempty"`
	Book     *SingleBookRequest `json:"book,omitempty"`
}

type SingleBookRequest struct {
	Title     string   `json:"title" validate:"required"`
	Contents  string   `json:"contents"`
	Isbn      string   `json:"isbn" validate:"required"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Thumbnail string   `json:"thumbnail"`
}

type ClassifyBookRequest struct {
	Title    string `json:"title" validate:"required"`
	Contents string `json:"contents"`
	Authors  string `json:"authors"`
}

type ClassifyBookResponse = tagger.Classification

type TaggingRetryStatusResponse struct {
	Pending    int  `json:"pending"`
	InProgress bool `json:"in_progress"`
}

type TaggingRetryResponse = tagger.BatchReport
