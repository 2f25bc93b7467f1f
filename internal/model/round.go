package model

import (
	"time"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"gorm.io/datatypes"
)

const (
	RoundInProgress = "in_progress"
	RoundCompleted  = "completed"
)

// Round is one batch of questions answered by a student.
// swagger:model Round
type Round struct {
	UUIDBase
	UserID    uint                `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Kind      selection.RoundKind `gorm:"size:20;not null;index" json:"kind"`
	ChapterID uint                `gorm:"index;type:bigint unsigned" json:"chapterId"`
	ConceptID *uint               `gorm:"index;type:bigint unsigned" json:"conceptId,omitempty"`
	Status    string              `gorm:"size:20;default:'in_progress'" json:"status"`
	// Params snapshots the selection parameters the round was drawn with.
	Params      datatypes.JSON `gorm:"type:json" json:"params,omitempty"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (Round) TableName() string {
	return "rounds"
}

// RoundQuestion is one question of a round and, once completed, its answer.
// swagger:model RoundQuestion
type RoundQuestion struct {
	BaseModel
	RoundID          string   `gorm:"index;type:varchar(36);not null" json:"roundId"`
	QuestionID       uint     `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	ConceptID        uint     `gorm:"index;type:bigint unsigned;not null" json:"conceptId"`
	Difficulty       string   `gorm:"size:20" json:"difficulty"`
	Type             string   `gorm:"size:50" json:"type"`
	Position         int      `gorm:"default:0" json:"position"`
	IsCorrect        *bool    `json:"isCorrect,omitempty"`
	EligibleMarks    *float64 `json:"eligibleMarks,omitempty"`
	MarksObtained    *float64 `json:"marksObtained,omitempty"`
	TimeSpentSeconds int      `gorm:"default:0" json:"timeSpentSeconds"`
}

func (RoundQuestion) TableName() string {
	return "round_questions"
}
