package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/repository"
	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"github.com/Mahaswami/exam-prep-sub000/internal/service"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
)

type fakeQuestions struct {
	questions []model.Question
	calls     int
}

func (f *fakeQuestions) FindQuestions(_ context.Context, filter repository.QuestionFilter) ([]model.Question, error) {
	f.calls++
	concepts := map[uint]bool{}
	for _, id := range filter.ConceptIDs {
		concepts[id] = true
	}
	var out []model.Question
	for _, q := range f.questions {
		if len(concepts) > 0 && !concepts[q.ConceptID] {
			continue
		}
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuestions) FindByIDs(_ context.Context, ids []uint) ([]model.Question, error) {
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Question
	for _, q := range f.questions {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestions) add(conceptID uint, difficulty, qType string, n int) {
	for i := 0; i < n; i++ {
		q := model.Question{
			ConceptID:  conceptID,
			Difficulty: difficulty,
			Type:       qType,
			Status:     model.QuestionActive,
			Content:    fmt.Sprintf("%s question %d", difficulty, i),
			Marks:      2,
		}
		q.ID = uint(len(f.questions) + 1)
		f.questions = append(f.questions, q)
	}
}

type fakeChapters struct {
	concepts map[uint]uint // concept -> chapter
}

func (f *fakeChapters) FindConcept(_ context.Context, id uint) (*model.Concept, error) {
	chapterID, ok := f.concepts[id]
	if !ok {
		return nil, util.ErrConceptNotFound
	}
	c := &model.Concept{ChapterID: chapterID, Name: fmt.Sprintf("concept %d", id)}
	c.ID = id
	return c, nil
}

func (f *fakeChapters) ConceptIDs(_ context.Context, chapterID uint) ([]uint, error) {
	var ids []uint
	found := false
	for concept, chapter := range f.concepts {
		if chapter == chapterID {
			found = true
			ids = append(ids, concept)
		}
	}
	if !found {
		return nil, util.ErrChapterNotFound
	}
	return ids, nil
}

type fakeRounds struct {
	mu        sync.Mutex
	rounds    map[string]*model.Round
	questions map[string][]model.RoundQuestion
	states    map[[2]uint]model.ConceptState
	seq       int
}

func newFakeRounds() *fakeRounds {
	return &fakeRounds{
		rounds:    map[string]*model.Round{},
		questions: map[string][]model.RoundQuestion{},
		states:    map[[2]uint]model.ConceptState{},
	}
}

func (f *fakeRounds) CreateRound(_ context.Context, round *model.Round, questions []model.RoundQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	round.ID = fmt.Sprintf("round-%d", f.seq)
	stored := *round
	f.rounds[round.ID] = &stored
	qs := make([]model.RoundQuestion, len(questions))
	for i := range questions {
		questions[i].RoundID = round.ID
		questions[i].ID = uint(f.seq*1000 + i)
		qs[i] = questions[i]
	}
	f.questions[round.ID] = qs
	return nil
}

func (f *fakeRounds) FindRound(_ context.Context, id string) (*model.Round, []model.RoundQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rounds[id]
	if !ok {
		return nil, nil, util.ErrRoundNotFound
	}
	round := *r
	return &round, append([]model.RoundQuestion(nil), f.questions[id]...), nil
}

func (f *fakeRounds) CompleteRound(_ context.Context, round *model.Round, answers []model.RoundQuestion, states []model.ConceptState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.rounds[round.ID]
	if stored.Status == model.RoundCompleted {
		return util.ErrRoundAlreadyCompleted
	}
	f.questions[round.ID] = append([]model.RoundQuestion(nil), answers...)
	for _, s := range states {
		f.states[[2]uint{s.UserID, s.ConceptID}] = s
	}
	stored.Status = model.RoundCompleted
	round.Status = model.RoundCompleted
	return nil
}

func (f *fakeRounds) CompletedQuestionIDs(_ context.Context, userID, conceptID uint, kinds []selection.RoundKind) (selection.AttemptHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[selection.RoundKind]bool{}
	for _, k := range kinds {
		wanted[k] = true
	}
	history := selection.AttemptHistory{}
	for id, r := range f.rounds {
		if r.UserID != userID || r.Status != model.RoundCompleted || !wanted[r.Kind] {
			continue
		}
		for _, q := range f.questions[id] {
			if q.ConceptID == conceptID {
				history[r.Kind] = append(history[r.Kind], q.QuestionID)
			}
		}
	}
	return history, nil
}

func (f *fakeRounds) ListByUser(_ context.Context, userID uint) ([]model.ConceptState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ConceptState
	for key, s := range f.states {
		if key[0] == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCache struct {
	pools map[uint][]selection.Question
	gets  int
}

func (f *fakeCache) Get(_ context.Context, chapterID uint) ([]selection.Question, bool, error) {
	f.gets++
	p, ok := f.pools[chapterID]
	return p, ok, nil
}

func (f *fakeCache) Set(_ context.Context, chapterID uint, pool []selection.Question) error {
	if f.pools == nil {
		f.pools = map[uint][]selection.Question{}
	}
	f.pools[chapterID] = pool
	return nil
}

type fixture struct {
	questions *fakeQuestions
	chapters  *fakeChapters
	rounds    *fakeRounds
	cache     *fakeCache
	svc       *service.RoundService
}

func newFixture(seed int64) *fixture {
	f := &fixture{
		questions: &fakeQuestions{},
		chapters:  &fakeChapters{concepts: map[uint]uint{}},
		rounds:    newFakeRounds(),
		cache:     &fakeCache{},
	}
	f.svc = service.NewRoundService(f.questions, f.chapters, f.rounds, f.rounds, f.rounds, f.cache, selection.NewRand(seed))
	return f
}
