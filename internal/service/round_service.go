package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/repository"
	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"github.com/Mahaswami/exam-prep-sub000/pkg/logger"
	"github.com/Mahaswami/exam-prep-sub000/pkg/monitoring"
	"github.com/Mahaswami/exam-prep-sub000/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type QuestionSource interface {
	FindQuestions(ctx context.Context, f repository.QuestionFilter) ([]model.Question, error)
}

type ChapterSource interface {
	FindConcept(ctx context.Context, id uint) (*model.Concept, error)
	ConceptIDs(ctx context.Context, chapterID uint) ([]uint, error)
}

type AttemptHistory interface {
	CompletedQuestionIDs(ctx context.Context, userID, conceptID uint, kinds []selection.RoundKind) (selection.AttemptHistory, error)
}

type RoundStore interface {
	CreateRound(ctx context.Context, round *model.Round, questions []model.RoundQuestion) error
	FindRound(ctx context.Context, id string) (*model.Round, []model.RoundQuestion, error)
	CompleteRound(ctx context.Context, round *model.Round, answers []model.RoundQuestion, states []model.ConceptState) error
}

type ConceptStateStore interface {
	ListByUser(ctx context.Context, userID uint) ([]model.ConceptState, error)
}

type PoolCache interface {
	Get(ctx context.Context, chapterID uint) ([]selection.Question, bool, error)
	Set(ctx context.Context, chapterID uint, pool []selection.Question) error
}

// RoundDetail is a round together with its questions in presentation order.
type RoundDetail struct {
	Round     *model.Round          `json:"round"`
	Questions []model.RoundQuestion `json:"questions"`
}

// Answer is a student's response to one question of a round. IsCorrect accepts
// a boolean or the strings "true"/"TRUE".
type Answer struct {
	QuestionID       uint     `json:"questionId" binding:"required"`
	IsCorrect        any      `json:"isCorrect,omitempty"`
	MarksObtained    *float64 `json:"marksObtained,omitempty"`
	TimeSpentSeconds int      `json:"timeSpentSeconds"`
}

type RoundResult struct {
	Round  *model.Round             `json:"round"`
	Scores []selection.ConceptScore `json:"scores"`
}

type RoundService struct {
	Questions QuestionSource
	Chapters  ChapterSource
	Attempts  AttemptHistory
	Rounds    RoundStore
	States    ConceptStateStore
	Cache     PoolCache

	selector  *selection.Selector
	allocator *selection.Allocator
	now       func() time.Time
}

func NewRoundService(questions QuestionSource, chapters ChapterSource, attempts AttemptHistory,
	rounds RoundStore, states ConceptStateStore, cache PoolCache, rnd selection.Rand) *RoundService {
	if rnd == nil {
		rnd = selection.DefaultRand()
	}
	return &RoundService{
		Questions: questions,
		Chapters:  chapters,
		Attempts:  attempts,
		Rounds:    rounds,
		States:    states,
		Cache:     cache,
		selector:  selection.NewSelector(rnd),
		allocator: selection.NewAllocator(selection.DiagnosticSelectionConfig(), rnd, logger.Named("diagnostic")),
		now:       time.Now,
	}
}

func (s *RoundService) StartRevision(ctx context.Context, userID, conceptID uint) (*RoundDetail, error) {
	return s.startConceptRound(ctx, selection.RoundRevision, userID, conceptID)
}

func (s *RoundService) StartTest(ctx context.Context, userID, conceptID uint) (*RoundDetail, error) {
	return s.startConceptRound(ctx, selection.RoundTest, userID, conceptID)
}

func (s *RoundService) startConceptRound(ctx context.Context, kind selection.RoundKind, userID, conceptID uint) (detail *RoundDetail, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "RoundService.Start",
		trace.WithAttributes(
			attribute.String("round.kind", string(kind)),
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("concept.id", int64(conceptID)),
		))
	defer func() { endSpan(span, err) }()

	cfg, ok := selection.ConfigFor(kind)
	if !ok {
		return nil, fmt.Errorf("no selection config for %s rounds", kind)
	}

	concept, err := s.Chapters.FindConcept(ctx, conceptID)
	if err != nil {
		return nil, err
	}

	policy := selection.ExclusionPolicyFor(kind)
	history, err := s.Attempts.CompletedQuestionIDs(ctx, userID, conceptID, policy.Kinds())
	if err != nil {
		return nil, fmt.Errorf("load attempt history: %w", err)
	}
	excluded := policy.Build(history)

	questions, err := s.Questions.FindQuestions(ctx, repository.QuestionFilter{
		ConceptIDs: []uint{conceptID},
		Status:     model.QuestionActive,
	})
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	marks := make(map[uint]float64, len(questions))
	pool := make([]selection.Question, 0, len(questions))
	for _, q := range questions {
		candidate, err := q.Candidate()
		if err != nil {
			logger.Log.Warn("skipping question with invalid difficulty", zap.Uint("question_id", q.ID), zap.Error(err))
			continue
		}
		marks[q.ID] = q.Marks
		pool = append(pool, candidate)
	}
	pool = selection.FilterPool(pool, excluded)

	selected := s.selector.Select(pool, cfg)
	if len(selected) < cfg.MinSize {
		monitoring.SelectionShortfalls.WithLabelValues(string(kind)).Inc()
		logger.Log.Info("not enough questions for round",
			zap.String("kind", string(kind)),
			zap.Uint("user_id", userID),
			zap.Uint("concept_id", conceptID),
			zap.Int("available", len(pool)),
			zap.Int("excluded", len(excluded)),
		)
		return nil, fmt.Errorf("%w: %d available, %d required", util.ErrInsufficientQuestions, len(selected), cfg.MinSize)
	}

	round := &model.Round{
		UserID:    userID,
		Kind:      kind,
		ChapterID: concept.ChapterID,
		ConceptID: &conceptID,
		Status:    model.RoundInProgress,
		Params:    snapshot(map[string]interface{}{"config": cfg, "excluded": len(excluded), "poolSize": len(pool)}),
		StartedAt: s.now(),
	}
	items := make([]model.RoundQuestion, len(selected))
	for i, q := range selected {
		items[i] = roundQuestion(q, i)
		if kind == selection.RoundTest {
			eligible := marks[q.ID]
			items[i].EligibleMarks = &eligible
		}
	}

	if err := s.Rounds.CreateRound(ctx, round, items); err != nil {
		return nil, fmt.Errorf("create round: %w", err)
	}

	monitoring.RoundsStarted.WithLabelValues(string(kind)).Inc()
	monitoring.RoundSize.WithLabelValues(string(kind)).Observe(float64(len(items)))
	logger.Log.Info("round started",
		zap.String("round_id", round.ID),
		zap.String("kind", string(kind)),
		zap.Uint("user_id", userID),
		zap.Int("selected", len(items)),
	)
	return &RoundDetail{Round: round, Questions: items}, nil
}

// StartDiagnostic draws a chapter-wide diagnostic from the active MCQ pool of
// every concept in the chapter.
func (s *RoundService) StartDiagnostic(ctx context.Context, userID, chapterID uint) (detail *RoundDetail, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "RoundService.StartDiagnostic",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("chapter.id", int64(chapterID)),
		))
	defer func() { endSpan(span, err) }()

	pool, err := s.diagnosticPool(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	ids := s.allocator.GenerateDiagnosticSelection(pool)
	if len(ids) == 0 {
		monitoring.SelectionShortfalls.WithLabelValues(string(selection.RoundDiagnostic)).Inc()
		return nil, util.ErrDiagnosticUnavailable
	}

	byID := make(map[uint]selection.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}
	items := make([]model.RoundQuestion, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("diagnostic selected unknown question %d", id)
		}
		items = append(items, roundQuestion(q, len(items)))
	}

	round := &model.Round{
		UserID:    userID,
		Kind:      selection.RoundDiagnostic,
		ChapterID: chapterID,
		Status:    model.RoundInProgress,
		Params:    snapshot(map[string]interface{}{"config": s.allocator.Config(), "poolSize": len(pool)}),
		StartedAt: s.now(),
	}
	if err := s.Rounds.CreateRound(ctx, round, items); err != nil {
		return nil, fmt.Errorf("create round: %w", err)
	}

	kind := string(selection.RoundDiagnostic)
	monitoring.RoundsStarted.WithLabelValues(kind).Inc()
	monitoring.RoundSize.WithLabelValues(kind).Observe(float64(len(items)))
	logger.Log.Info("diagnostic started",
		zap.String("round_id", round.ID),
		zap.Uint("user_id", userID),
		zap.Uint("chapter_id", chapterID),
		zap.Int("pool_size", len(pool)),
		zap.Int("selected", len(items)),
	)
	return &RoundDetail{Round: round, Questions: items}, nil
}

func (s *RoundService) diagnosticPool(ctx context.Context, chapterID uint) ([]selection.Question, error) {
	if s.Cache != nil {
		pool, hit, err := s.Cache.Get(ctx, chapterID)
		if err != nil {
			logger.Log.Warn("diagnostic pool cache read failed", zap.Uint("chapter_id", chapterID), zap.Error(err))
		} else if hit {
			return pool, nil
		}
	}

	conceptIDs, err := s.Chapters.ConceptIDs(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if len(conceptIDs) == 0 {
		return nil, util.ErrDiagnosticUnavailable
	}

	cfg := s.allocator.Config()
	questions, err := s.Questions.FindQuestions(ctx, repository.QuestionFilter{
		ConceptIDs: conceptIDs,
		Type:       cfg.PoolType,
		Status:     model.QuestionStatus(cfg.PoolStatus),
	})
	if err != nil {
		return nil, fmt.Errorf("load diagnostic pool: %w", err)
	}

	pool := make([]selection.Question, 0, len(questions))
	for _, q := range questions {
		candidate, err := q.Candidate()
		if err != nil {
			logger.Log.Warn("skipping question with invalid difficulty", zap.Uint("question_id", q.ID), zap.Error(err))
			continue
		}
		pool = append(pool, candidate)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, chapterID, pool); err != nil {
			logger.Log.Warn("diagnostic pool cache write failed", zap.Uint("chapter_id", chapterID), zap.Error(err))
		}
	}
	return pool, nil
}

func (s *RoundService) GetRound(ctx context.Context, roundID string) (*RoundDetail, error) {
	round, questions, err := s.Rounds.FindRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return &RoundDetail{Round: round, Questions: questions}, nil
}

// CompleteRound records the answers of a round, rescores the concepts it covers
// and closes it. Questions without an answer stay unscored.
func (s *RoundService) CompleteRound(ctx context.Context, roundID string, answers []Answer) (result *RoundResult, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "RoundService.CompleteRound",
		trace.WithAttributes(attribute.String("round.id", roundID)))
	defer func() { endSpan(span, err) }()

	round, questions, err := s.Rounds.FindRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status == model.RoundCompleted {
		return nil, util.ErrRoundAlreadyCompleted
	}

	byQuestion := make(map[uint]int, len(questions))
	for i, q := range questions {
		byQuestion[q.QuestionID] = i
	}
	for _, a := range answers {
		i, ok := byQuestion[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %d is not part of round %s", util.ErrInvalidAnswer, a.QuestionID, roundID)
		}
		if err := applyAnswer(round.Kind, &questions[i], a); err != nil {
			return nil, err
		}
	}

	var scores []selection.ConceptScore
	var states []model.ConceptState
	if policy, scored := unscoredPolicyFor(round.Kind); scored {
		results := make([]selection.TestResult, len(questions))
		for i, q := range questions {
			results[i] = selection.NewTestResult(q.ConceptID, selection.Difficulty(q.Difficulty), q.IsCorrect, q.EligibleMarks, q.MarksObtained)
		}
		scores = selection.CalculateConceptScores(results, policy)
		for _, sc := range scores {
			states = append(states, model.ConceptState{
				UserID:       round.UserID,
				ConceptID:    sc.ConceptID,
				ComfortLevel: sc.Score,
				Percentage:   sc.Percentage,
				RoundID:      round.ID,
			})
		}
	}

	if err := s.Rounds.CompleteRound(ctx, round, questions, states); err != nil {
		return nil, err
	}

	for _, sc := range scores {
		monitoring.ComfortLevels.WithLabelValues(string(round.Kind), string(sc.Score)).Inc()
	}
	logger.Log.Info("round completed",
		zap.String("round_id", round.ID),
		zap.String("kind", string(round.Kind)),
		zap.Uint("user_id", round.UserID),
		zap.Int("answers", len(answers)),
		zap.Int("concepts_scored", len(scores)),
	)
	if scores == nil {
		scores = []selection.ConceptScore{}
	}
	return &RoundResult{Round: round, Scores: scores}, nil
}

func (s *RoundService) ConceptStates(ctx context.Context, userID uint) ([]model.ConceptState, error) {
	states, err := s.States.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if states == nil {
		states = []model.ConceptState{}
	}
	return states, nil
}

// unscoredPolicyFor reports how a round kind is scored. Revision rounds are
// practice and never touch concept states.
func unscoredPolicyFor(kind selection.RoundKind) (selection.UnscoredPolicy, bool) {
	switch kind {
	case selection.RoundDiagnostic, selection.RoundTest:
		return selection.CountUnscoredAsIncorrect, true
	}
	return 0, false
}

func applyAnswer(kind selection.RoundKind, q *model.RoundQuestion, a Answer) error {
	q.TimeSpentSeconds = a.TimeSpentSeconds
	if correct, present := selection.ParseCorrect(a.IsCorrect); present {
		q.IsCorrect = &correct
	}
	if kind != selection.RoundTest || a.MarksObtained == nil {
		return nil
	}

	obtained := *a.MarksObtained
	if obtained < 0 || (q.EligibleMarks != nil && obtained > *q.EligibleMarks) {
		return fmt.Errorf("%w: marks %.2f out of range for question %d", util.ErrInvalidAnswer, obtained, q.QuestionID)
	}
	q.MarksObtained = &obtained
	return nil
}

func roundQuestion(q selection.Question, position int) model.RoundQuestion {
	return model.RoundQuestion{
		QuestionID: q.ID,
		ConceptID:  q.ConceptID,
		Difficulty: string(q.Difficulty),
		Type:       q.Type,
		Position:   position,
	}
}

func snapshot(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
