package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// testDB opens TEST_MYSQL_DSN inside a transaction that is rolled back when the
// test ends.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("set TEST_MYSQL_DSN to run repository integration tests")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(&model.Chapter{}, &model.Concept{}, &model.Question{}, &model.Round{},
		&model.RoundQuestion{}, &model.ConceptState{}, &model.GenerationJob{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { _ = tx.Rollback().Error })
	return tx
}

func TestRoundRepository_Lifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	rounds := NewRoundRepository(db)

	conceptID := uint(9001)
	round := &model.Round{UserID: 77, Kind: selection.RoundRevision, ConceptID: &conceptID, Status: model.RoundInProgress}
	questions := []model.RoundQuestion{
		{QuestionID: 1, ConceptID: conceptID, Difficulty: "Easy", Type: "MCQ", Position: 0},
		{QuestionID: 2, ConceptID: conceptID, Difficulty: "Hard", Type: "MCQ", Position: 1},
	}
	if err := rounds.CreateRound(ctx, round, questions); err != nil {
		t.Fatalf("CreateRound: %v", err)
	}

	history, err := rounds.CompletedQuestionIDs(ctx, 77, conceptID, []selection.RoundKind{selection.RoundRevision})
	if err != nil {
		t.Fatalf("CompletedQuestionIDs: %v", err)
	}
	if len(history[selection.RoundRevision]) != 0 {
		t.Fatalf("in-progress rounds must not count as history, got %v", history)
	}

	found, stored, err := rounds.FindRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("FindRound: %v", err)
	}
	if found.ID != round.ID || len(stored) != 2 {
		t.Fatalf("unexpected round %+v with %d questions", found, len(stored))
	}

	states := []model.ConceptState{{UserID: 77, ConceptID: conceptID, ComfortLevel: selection.Good, Percentage: 60, RoundID: round.ID}}
	if err := rounds.CompleteRound(ctx, found, stored, states); err != nil {
		t.Fatalf("CompleteRound: %v", err)
	}
	if err := rounds.CompleteRound(ctx, found, stored, nil); err != util.ErrRoundAlreadyCompleted {
		t.Fatalf("expected ErrRoundAlreadyCompleted, got %v", err)
	}

	history, err = rounds.CompletedQuestionIDs(ctx, 77, conceptID, []selection.RoundKind{selection.RoundRevision, selection.RoundTest})
	if err != nil {
		t.Fatalf("CompletedQuestionIDs: %v", err)
	}
	if len(history[selection.RoundRevision]) != 2 {
		t.Errorf("expected 2 completed revision questions, got %v", history)
	}

	list, err := NewConceptStateRepository(db).ListByUser(ctx, 77)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].ComfortLevel != selection.Good {
		t.Errorf("unexpected concept states %+v", list)
	}
}

func TestRoundRepository_FindMissing(t *testing.T) {
	db := testDB(t)
	_, _, err := NewRoundRepository(db).FindRound(context.Background(), "does-not-exist")
	if err != util.ErrRoundNotFound {
		t.Errorf("expected ErrRoundNotFound, got %v", err)
	}
}

func TestQuestionRepository_Filter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewQuestionRepository(db)

	seed := []model.Question{
		{ConceptID: 8001, Difficulty: "Easy", Type: "MCQ", Status: model.QuestionActive, Content: "a"},
		{ConceptID: 8001, Difficulty: "Hard", Type: "Long", Status: model.QuestionActive, Content: "b"},
		{ConceptID: 8001, Difficulty: "Hard", Type: "MCQ", Status: model.QuestionDraft, Content: "c"},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.FindQuestions(ctx, QuestionFilter{
		ConceptIDs: []uint{8001},
		Type:       "MCQ",
		Status:     model.QuestionActive,
	})
	if err != nil {
		t.Fatalf("FindQuestions: %v", err)
	}
	if len(got) != 1 || got[0].ID != seed[0].ID {
		t.Errorf("expected only the active MCQ, got %+v", got)
	}

	got, err = repo.FindQuestions(ctx, QuestionFilter{ConceptIDs: []uint{8001}})
	if err != nil {
		t.Fatalf("FindQuestions: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected all 3 questions without type or status filter, got %d", len(got))
	}
}
