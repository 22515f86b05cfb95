package implementation

import (
	"context"
	"errors"

	"bookapp-ai-be/internal/entity"
	"bookapp-ai-be/internal/mapper"
	"bookapp-ai-be/internal/model"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type BookCorpusRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookCorpusMapper
}

func NewBookCorpusRepository(db *gorm.DB) contract.BookCorpusRepository {
	return &BookCorpusRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookCorpusMapper(),
	}
}

func (r *BookCorpusRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookCorpusRepositoryImpl) Create(ctx context.Context, book *entity.BookCorpus) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrDuplicateIsbn
		}
		return err
	}
	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookCorpusRepositoryImpl) UpdateClassification(ctx context.Context, isbn, keyword string, tags []string, usedLLM bool) error {
	return r.db.WithContext(ctx).
		Model(&model.BookCorpus{}).
		Where("isbn = ?", isbn).
		Updates(map[string]interface{}{
			"keyword":  keyword,
			"tags":     datatypes.JSONSlice[string](tags),
			"used_llm": usedLLM,
		}).Error
}

func (r *BookCorpusRepositoryImpl) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	count, err := r.Count(ctx, specification.ByIsbn{Isbn: isbn})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookCorpusRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookCorpus, error) {
	var m model.BookCorpus
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookCorpusRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookCorpus, error) {
	var models []*model.BookCorpus
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookCorpusRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.BookCorpus{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *BookCorpusRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, keywords []string, limit int) ([]*contract.ScoredBook, error) {
	if limit <= 0 {
		limit = 60
	}

	// Cosine distance in pgvector is 1 - cosine_similarity.
	type result struct {
		model.BookCorpus
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table(model.BookCorpus{}.TableName()).
		Select("book_corpus.*, 1 - (embedding <=> ?) AS similarity", queryVector)

	if len(keywords) > 0 {
		query = query.Where("1 - (embedding <=> ?) > ? OR keyword IN ?", queryVector, threshold, keywords)
	} else {
		query = query.Where("1 - (embedding <=> ?) > ?", queryVector, threshold)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredBook, len(results))
	for i := range results {
		scored[i] = &contract.ScoredBook{
			Book:       r.mapper.ToEntity(&results[i].BookCorpus),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *BookCorpusRepositoryImpl) SearchByAuthorPattern(ctx context.Context, pattern string, excludeIsbns []string, limit int) ([]*entity.BookCorpus, error) {
	specs := []specification.Specification{
		specification.AuthorLike{Pattern: pattern},
		specification.ExcludeIsbns{Isbns: excludeIsbns},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit})
	}
	return r.FindAll(ctx, specs...)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
