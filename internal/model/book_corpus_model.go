package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type BookCorpus struct {
	Id              int64                       `gorm:"primaryKey;autoIncrement"`
	Title           string                      `gorm:"type:text;not null"`
	Contents        string                      `gorm:"type:text"`
	Isbn            string                      `gorm:"type:varchar(20);uniqueIndex;not null"`
	Authors         string                      `gorm:"type:varchar(512)"`
	Publisher       string                      `gorm:"type:varchar(255)"`
	Thumbnail       string                      `gorm:"type:text"`
	Keyword         string                      `gorm:"type:varchar(100);not null;index"`
	Tags            datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	UsedLLM         bool                        `gorm:"column:used_llm;default:false"`
	SimilarityScore float64                     `gorm:"not null;default:0"`
	Embedding       pgvector.Vector             `gorm:"type:vector(768);not null"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime"`
}

func (BookCorpus) TableName() string {
	return "book_corpus"
}
