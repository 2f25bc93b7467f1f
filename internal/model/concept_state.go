package model

import (
	"time"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
)

// ConceptState is a student's current comfort level for a concept. It is
// overwritten from each completed scored round.
// swagger:model ConceptState
type ConceptState struct {
	ID           uint                   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint                   `gorm:"uniqueIndex:idx_user_concept;type:bigint unsigned;not null" json:"userId"`
	ConceptID    uint                   `gorm:"uniqueIndex:idx_user_concept;type:bigint unsigned;not null" json:"conceptId"`
	ComfortLevel selection.ComfortLevel `gorm:"size:30;not null" json:"comfortLevel"`
	Percentage   int                    `json:"percentage"`
	RoundID      string                 `gorm:"type:varchar(36)" json:"roundId"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

func (ConceptState) TableName() string {
	return "concept_states"
}
