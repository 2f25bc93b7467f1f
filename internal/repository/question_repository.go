package repository

import (
	"context"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"gorm.io/gorm"
)

// QuestionFilter narrows the candidate pool. Empty fields do not filter.
type QuestionFilter struct {
	ConceptIDs []uint
	Type       string
	Status     model.QuestionStatus
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindQuestions(ctx context.Context, f QuestionFilter) ([]model.Question, error) {
	query := r.DB.WithContext(ctx).Model(&model.Question{})
	if len(f.ConceptIDs) > 0 {
		query = query.Where("concept_id IN ?", f.ConceptIDs)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var questions []model.Question
	err := query.Order("id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}
