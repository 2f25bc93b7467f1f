package model

const (
	GenerationPending  = "pending"
	GenerationDone     = "done"
	GenerationRejected = "rejected"
	GenerationFailed   = "failed"
)

// GenerationJob records one AI generation attempt for a source question.
type GenerationJob struct {
	UUIDBase
	SourceQuestionID    uint   `gorm:"index;type:bigint unsigned;not null" json:"sourceQuestionId"`
	Status              string `gorm:"size:20;default:'pending'" json:"status"`
	GeneratedQuestionID *uint  `gorm:"type:bigint unsigned" json:"generatedQuestionId,omitempty"`
	Verified            bool   `gorm:"default:false" json:"verified"`
	VerificationNote    string `gorm:"type:text" json:"verificationNote"`
	Error               string `gorm:"type:text" json:"error,omitempty"`
}

func (GenerationJob) TableName() string {
	return "generation_jobs"
}
