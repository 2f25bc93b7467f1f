package util

import "errors"

var (
	ErrChapterNotFound       = errors.New("chapter not found")
	ErrConceptNotFound       = errors.New("concept not found")
	ErrRoundNotFound         = errors.New("round not found")
	ErrRoundAlreadyCompleted = errors.New("round already completed")
	ErrInsufficientQuestions = errors.New("not enough new questions for this round")
	ErrDiagnosticUnavailable = errors.New("diagnostic unavailable")
	ErrInvalidAnswer         = errors.New("invalid answer")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrGenerationNotVerified = errors.New("generated question failed verification")
	ErrGenerationDisabled    = errors.New("question generation is disabled")
)
