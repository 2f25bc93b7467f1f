package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoundRepository struct {
	DB *gorm.DB
}

func NewRoundRepository(db *gorm.DB) *RoundRepository {
	return &RoundRepository{DB: db}
}

// CreateRound stores the round and its questions atomically.
func (r *RoundRepository) CreateRound(ctx context.Context, round *model.Round, questions []model.RoundQuestion) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(round).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].RoundID = round.ID
		}
		return tx.Create(&questions).Error
	})
}

func (r *RoundRepository) FindRound(ctx context.Context, id string) (*model.Round, []model.RoundQuestion, error) {
	var round model.Round
	err := r.DB.WithContext(ctx).First(&round, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrRoundNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var questions []model.RoundQuestion
	if err := r.DB.WithContext(ctx).Where("round_id = ?", id).Order("position").Find(&questions).Error; err != nil {
		return nil, nil, err
	}
	return &round, questions, nil
}

type completedRow struct {
	Kind       selection.RoundKind
	QuestionID uint
}

// CompletedQuestionIDs returns, per round kind, the questions of the user's
// completed rounds that belong to the concept.
func (r *RoundRepository) CompletedQuestionIDs(ctx context.Context, userID, conceptID uint, kinds []selection.RoundKind) (selection.AttemptHistory, error) {
	history := selection.AttemptHistory{}
	if len(kinds) == 0 {
		return history, nil
	}

	var rows []completedRow
	err := r.DB.WithContext(ctx).
		Table("round_questions").
		Select("rounds.kind AS kind, round_questions.question_id AS question_id").
		Joins("JOIN rounds ON rounds.id = round_questions.round_id").
		Where("rounds.user_id = ? AND rounds.status = ? AND rounds.deleted_at IS NULL", userID, model.RoundCompleted).
		Where("round_questions.concept_id = ? AND round_questions.deleted_at IS NULL", conceptID).
		Where("rounds.kind IN ?", kinds).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		history[row.Kind] = append(history[row.Kind], row.QuestionID)
	}
	return history, nil
}

// CompleteRound records the answers, replaces the user's concept states and
// closes the round in one transaction.
func (r *RoundRepository) CompleteRound(ctx context.Context, round *model.Round, answers []model.RoundQuestion, states []model.ConceptState) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range answers {
			err := tx.Model(&model.RoundQuestion{}).
				Where("id = ?", a.ID).
				Updates(map[string]interface{}{
					"is_correct":         a.IsCorrect,
					"eligible_marks":     a.EligibleMarks,
					"marks_obtained":     a.MarksObtained,
					"time_spent_seconds": a.TimeSpentSeconds,
				}).Error
			if err != nil {
				return err
			}
		}

		if len(states) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "concept_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"comfort_level", "percentage", "round_id", "updated_at"}),
			}).Create(&states).Error
			if err != nil {
				return err
			}
		}

		now := time.Now()
		res := tx.Model(&model.Round{}).
			Where("id = ? AND status = ?", round.ID, model.RoundInProgress).
			Updates(map[string]interface{}{"status": model.RoundCompleted, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrRoundAlreadyCompleted
		}
		round.Status = model.RoundCompleted
		round.CompletedAt = &now
		return nil
	})
}
