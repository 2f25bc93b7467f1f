package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Mahaswami/exam-prep-sub000/internal/config"
	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"github.com/Mahaswami/exam-prep-sub000/pkg/logger"
	"github.com/Mahaswami/exam-prep-sub000/pkg/monitoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
)

type QuestionGenerator interface {
	GenerateVariant(ctx context.Context, source model.Question) (*GeneratedQuestion, error)
	Verify(ctx context.Context, source model.Question, g *GeneratedQuestion) (*Verification, error)
}

type QuestionLookup interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error)
}

type GenerationStore interface {
	CreateJob(ctx context.Context, job *model.GenerationJob) error
	UpdateJob(ctx context.Context, job *model.GenerationJob) error
	SaveGenerated(ctx context.Context, job *model.GenerationJob, q *model.Question) error
}

// BatchReport counts the outcome of every source question in a batch.
type BatchReport struct {
	Total     int `json:"total"`
	Generated int `json:"generated"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

// GenerationService creates draft variants of existing questions. Drafts never
// enter a selection pool until someone activates them.
type GenerationService struct {
	Questions QuestionLookup
	Jobs      GenerationStore
	Generator QuestionGenerator

	workers int
	limiter *rate.Limiter
}

func NewGenerationService(questions QuestionLookup, jobs GenerationStore, generator QuestionGenerator, cfg config.GenerationConfig) *GenerationService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &GenerationService{
		Questions: questions,
		Jobs:      jobs,
		Generator: generator,
		workers:   workers,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// RunBatch generates one variant per source question. Individual failures are
// recorded on their job and counted; only a cancelled context or a failed
// lookup aborts the batch.
func (s *GenerationService) RunBatch(ctx context.Context, questionIDs []uint) (*BatchReport, error) {
	if s.Generator == nil {
		return nil, util.ErrGenerationDisabled
	}

	sources, err := s.Questions.FindByIDs(ctx, questionIDs)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	report := &BatchReport{Total: len(sources)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, source := range sources {
		source := source
		g.Go(func() error {
			status, err := s.generate(ctx, source)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			mu.Lock()
			switch status {
			case model.GenerationDone:
				report.Generated++
			case model.GenerationRejected:
				report.Rejected++
			default:
				report.Failed++
			}
			mu.Unlock()
			monitoring.GenerationJobs.WithLabelValues(status).Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	logger.Log.Info("generation batch finished",
		zap.Int("total", report.Total),
		zap.Int("generated", report.Generated),
		zap.Int("rejected", report.Rejected),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *GenerationService) generate(ctx context.Context, source model.Question) (string, error) {
	job := &model.GenerationJob{SourceQuestionID: source.ID, Status: model.GenerationPending}
	if err := s.Jobs.CreateJob(ctx, job); err != nil {
		logger.Log.Error("create generation job failed", zap.Uint("question_id", source.ID), zap.Error(err))
		return model.GenerationFailed, err
	}

	fail := func(err error) (string, error) {
		job.Status = model.GenerationFailed
		job.Error = err.Error()
		if uerr := s.Jobs.UpdateJob(ctx, job); uerr != nil {
			logger.Log.Error("update generation job failed", zap.String("job_id", job.ID), zap.Error(uerr))
		}
		logger.Log.Warn("question generation failed", zap.Uint("question_id", source.ID), zap.Error(err))
		return model.GenerationFailed, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fail(err)
	}
	generated, err := s.Generator.GenerateVariant(ctx, source)
	if err != nil {
		return fail(err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fail(err)
	}
	verification, err := s.Generator.Verify(ctx, source, generated)
	if err != nil {
		return fail(err)
	}

	job.VerificationNote = verification.Note
	if !verification.Valid {
		job.Status = model.GenerationRejected
		job.Error = util.ErrGenerationNotVerified.Error()
		if err := s.Jobs.UpdateJob(ctx, job); err != nil {
			logger.Log.Error("update generation job failed", zap.String("job_id", job.ID), zap.Error(err))
		}
		return model.GenerationRejected, nil
	}

	var options datatypes.JSON
	if len(generated.Options) > 0 {
		raw, err := json.Marshal(generated.Options)
		if err != nil {
			return fail(err)
		}
		options = datatypes.JSON(raw)
	}
	sourceID := source.ID
	draft := &model.Question{
		ConceptID:        source.ConceptID,
		Difficulty:       source.Difficulty,
		Type:             source.Type,
		Status:           model.QuestionDraft,
		Content:          generated.Content,
		Options:          options,
		Answer:           generated.Answer,
		Explanation:      generated.Explanation,
		Marks:            source.Marks,
		SourceQuestionID: &sourceID,
	}
	job.Status = model.GenerationDone
	job.Verified = true
	if err := s.Jobs.SaveGenerated(ctx, job, draft); err != nil {
		job.GeneratedQuestionID = nil
		return fail(err)
	}
	return model.GenerationDone, nil
}
