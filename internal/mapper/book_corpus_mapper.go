package mapper

import (
	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type BookCorpusMapper struct{}

func NewBookCorpusMapper() *BookCorpusMapper {
	return &BookCorpusMapper{}
}

func (m *BookCorpusMapper) ToEntity(b *model.BookCorpus) *entity.BookCorpus {
	if b == nil {
		return nil
	}

	tags := make([]string, len(b.Tags))
	copy(tags, b.Tags)

	return &entity.BookCorpus{
		Id:              b.Id,
		Title:           b.Title,
		Contents:        b.Contents,
		Isbn:            b.Isbn,
		Authors:         b.Authors,
		Publisher:       b.Publisher,
		Thumbnail:       b.Thumbnail,
		Keyword:         b.Keyword,
		Tags:            tags,
		UsedLLM:         b.UsedLLM,
		SimilarityScore: b.SimilarityScore,
		Embedding:       b.Embedding.Slice(),
		CreatedAt:       b.CreatedAt,
	}
}

func (m *BookCorpusMapper) ToModel(b *entity.BookCorpus) *model.BookCorpus {
	if b == nil {
		return nil
	}

	tags := datatypes.JSONSlice[string]{}
	tags = append(tags, b.Tags...)

	return &model.BookCorpus{
		Id:              b.Id,
		Title:           b.Title,
		Contents:        b.Contents,
		Isbn:            b.Isbn,
		Authors:         b.Authors,
		Publisher:       b.Publisher,
		Thumbnail:       b.Thumbnail,
		Keyword:         b.Keyword,
		Tags:            tags,
		UsedLLM:         b.UsedLLM,
		SimilarityScore: b.SimilarityScore,
		Embedding:       pgvector.NewVector(b.Embedding),
		CreatedAt:       b.CreatedAt,
	}
}

func (m *BookCorpusMapper) ToEntities(books []*model.BookCorpus) []*entity.BookCorpus {
	entities := make([]*entity.BookCorpus, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
