package repository

import (
	"context"
	"errors"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"gorm.io/gorm"
)

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) FindConcept(ctx context.Context, id uint) (*model.Concept, error) {
	var c model.Concept
	err := r.DB.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrConceptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ConceptIDs lists the concepts of a chapter in display order.
func (r *ChapterRepository) ConceptIDs(ctx context.Context, chapterID uint) ([]uint, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.Chapter{}).Where("id = ?", chapterID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, util.ErrChapterNotFound
	}

	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Concept{}).
		Where("chapter_id = ?", chapterID).
		Order("`order`, id").
		Pluck("id", &ids).Error
	return ids, err
}
