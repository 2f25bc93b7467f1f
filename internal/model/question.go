package model

import (
	"fmt"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"gorm.io/datatypes"
)

type QuestionStatus string

const (
	QuestionActive  QuestionStatus = "active"
	QuestionDraft   QuestionStatus = "draft"
	QuestionRetired QuestionStatus = "retired"
)

const (
	QuestionTypeMCQ       = selection.TypeMCQ
	QuestionTypeShort     = "Short"
	QuestionTypeLong      = "Long"
	QuestionTypeCaseBased = "CaseBased"
)

// Question is a question bank item. Selection only reads it.
// swagger:model Question
type Question struct {
	BaseModel
	ConceptID   uint           `gorm:"index;type:bigint unsigned;not null" json:"conceptId"`
	Difficulty  string         `gorm:"size:20;not null;index" json:"difficulty"` // Easy, Medium, Hard
	Type        string         `gorm:"size:50;not null;index" json:"type"`       // MCQ, Short, Long, CaseBased
	Status      QuestionStatus `gorm:"size:20;default:'active';index" json:"status"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Options     datatypes.JSON `gorm:"type:json" json:"options,omitempty"`
	Answer      string         `gorm:"type:text" json:"answer"`
	Explanation string         `gorm:"type:text" json:"explanation"`
	Marks       float64        `gorm:"default:1" json:"marks"`
	// SourceQuestionID is set on questions produced by the generation batch.
	SourceQuestionID *uint `gorm:"index;type:bigint unsigned" json:"sourceQuestionId,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Candidate validates the record and converts it for selection.
func (q Question) Candidate() (selection.Question, error) {
	d, err := selection.ParseDifficulty(q.Difficulty)
	if err != nil {
		return selection.Question{}, fmt.Errorf("question %d: %w", q.ID, err)
	}
	return selection.Question{
		ID:         q.ID,
		ConceptID:  q.ConceptID,
		Difficulty: d,
		Type:       q.Type,
	}, nil
}
