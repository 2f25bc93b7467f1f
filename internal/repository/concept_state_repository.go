package repository

import (
	"context"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"gorm.io/gorm"
)

type ConceptStateRepository struct {
	DB *gorm.DB
}

func NewConceptStateRepository(db *gorm.DB) *ConceptStateRepository {
	return &ConceptStateRepository{DB: db}
}

func (r *ConceptStateRepository) ListByUser(ctx context.Context, userID uint) ([]model.ConceptState, error) {
	var states []model.ConceptState
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("concept_id").Find(&states).Error
	return states, err
}
