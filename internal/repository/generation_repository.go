package repository

import (
	"context"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"gorm.io/gorm"
)

type GenerationRepository struct {
	DB *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{DB: db}
}

func (r *GenerationRepository) CreateJob(ctx context.Context, job *model.GenerationJob) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

func (r *GenerationRepository) UpdateJob(ctx context.Context, job *model.GenerationJob) error {
	return r.DB.WithContext(ctx).Save(job).Error
}

// SaveGenerated stores a generated question and links it to its job.
func (r *GenerationRepository) SaveGenerated(ctx context.Context, job *model.GenerationJob, q *model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		job.GeneratedQuestionID = &q.ID
		return tx.Save(job).Error
	})
}
