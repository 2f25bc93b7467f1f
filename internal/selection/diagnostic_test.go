package selection_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
)

func newAllocator(seed int64) *selection.Allocator {
	return selection.NewAllocator(selection.DiagnosticSelectionConfig(), selection.NewRand(seed), zap.NewNop())
}

func TestDiagnosticSize(t *testing.T) {
	a := newAllocator(1)
	tests := []struct {
		total    int
		expected int
	}{
		{0, 0},
		{7, 7},
		{10, 10},
		{15, 10},
		{16, 10},
		{40, 10},
		{48, 12},
		{50, 13},
		{60, 15},
		{61, 25},
		{500, 25},
	}

	for _, tc := range tests {
		if got := a.DiagnosticSize(tc.total); got != tc.expected {
			t.Errorf("DiagnosticSize(%d) = %d, expected %d", tc.total, got, tc.expected)
		}
	}
}

func fiveConceptPool() []selection.Question {
	var pool []selection.Question
	for c := uint(1); c <= 5; c++ {
		pool = append(pool, buildPool(c, (c-1)*100+1, 5, 7, 8)...)
	}
	return pool
}

func TestGenerateDiagnosticSelection_LargePool(t *testing.T) {
	pool := fiveConceptPool()
	cfg := selection.DiagnosticSelectionConfig()
	byID := map[uint]selection.Question{}
	for _, q := range pool {
		byID[q.ID] = q
	}

	for seed := int64(0); seed < 20; seed++ {
		ids := newAllocator(seed).GenerateDiagnosticSelection(pool)

		if len(ids) != cfg.MaxSize {
			t.Fatalf("expected %d questions, got %d", cfg.MaxSize, len(ids))
		}
		if hasDuplicateIDs(ids) {
			t.Fatalf("duplicate ids: %v", ids)
		}

		perConcept := map[uint]int{}
		hardPerConcept := map[uint]int{}
		for _, id := range ids {
			q, ok := byID[id]
			if !ok {
				t.Fatalf("id %d not in pool", id)
			}
			perConcept[q.ConceptID]++
			if q.Difficulty == selection.Hard {
				hardPerConcept[q.ConceptID]++
			}
		}
		for c := uint(1); c <= 5; c++ {
			if perConcept[c] != 5 {
				t.Errorf("concept %d: expected 5 questions, got %d", c, perConcept[c])
			}
			if hardPerConcept[c] < cfg.PerConceptMinHard {
				t.Errorf("concept %d: expected at least %d hard, got %d", c, cfg.PerConceptMinHard, hardPerConcept[c])
			}
		}
	}
}

func TestAllocation_Proportional(t *testing.T) {
	// 40 + 20 questions -> size 15, 13 slots to share after one per concept
	pool := append(buildPool(1, 1, 10, 15, 15), buildPool(2, 1000, 5, 5, 10)...)

	alloc := newAllocator(1).Allocation(pool)

	if alloc[1] != 1+9 {
		t.Errorf("concept 1: expected 10 slots, got %d", alloc[1])
	}
	if alloc[2] != 1+4 {
		t.Errorf("concept 2: expected 5 slots, got %d", alloc[2])
	}
}

func TestGenerateDiagnosticSelection_SmallPool(t *testing.T) {
	pool := buildPool(1, 1, 2, 3, 5)

	ids := newAllocator(4).GenerateDiagnosticSelection(pool)

	expected := min(selection.DiagnosticSelectionConfig().MinSize, len(pool))
	if len(ids) != expected {
		t.Errorf("expected %d questions, got %d", expected, len(ids))
	}
}

func TestGenerateDiagnosticSelection_Empty(t *testing.T) {
	ids := newAllocator(1).GenerateDiagnosticSelection(nil)
	if ids == nil || len(ids) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", ids)
	}
}

func TestGenerateDiagnosticSelection_ConceptWithoutHard(t *testing.T) {
	pool := append(buildPool(1, 1, 0, 1, 1), buildPool(2, 100, 3, 3, 3)...)

	ids := newAllocator(8).GenerateDiagnosticSelection(pool)

	seenConcept1 := false
	for _, id := range ids {
		if id < 100 {
			seenConcept1 = true
		}
	}
	if !seenConcept1 {
		t.Error("expected every concept to contribute at least one question")
	}
	if len(ids) != 10 {
		t.Errorf("expected 10 questions, got %d", len(ids))
	}
}

func TestGenerateDiagnosticSelection_BackfillsShortfall(t *testing.T) {
	// 70 questions -> size 25; allocations 22 + 1 + 1 leave one slot to backfill
	pool := buildPool(1, 1, 20, 24, 24)
	pool = append(pool, buildPool(2, 500, 0, 0, 1)...)
	pool = append(pool, buildPool(3, 600, 0, 1, 0)...)

	ids := newAllocator(2).GenerateDiagnosticSelection(pool)

	if len(ids) != 25 {
		t.Errorf("expected 25 questions, got %d", len(ids))
	}
}

type panicRand struct{}

func (panicRand) Intn(int) int { panic("source exhausted") }

func TestGenerateDiagnosticSelection_RecoversAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	a := selection.NewAllocator(selection.DiagnosticSelectionConfig(), panicRand{}, zap.New(core))

	ids := a.GenerateDiagnosticSelection(buildPool(1, 1, 5, 5, 5))

	if ids == nil || len(ids) != 0 {
		t.Errorf("expected empty result after failure, got %v", ids)
	}
	if logs.FilterMessage("diagnostic allocation failed").Len() != 1 {
		t.Error("expected the failure to be logged")
	}
}
