package selection_test

import (
	"testing"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
)

func TestCalculateConceptScores_BooleanMode(t *testing.T) {
	results := []selection.TestResult{
		selection.BooleanResult(1, selection.Easy, true),
		selection.BooleanResult(1, selection.Hard, false),
	}

	scores := selection.CalculateConceptScores(results, selection.CountUnscoredAsIncorrect)

	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if scores[0].Percentage != 25 || scores[0].Score != selection.NeedsImprovement {
		t.Errorf("expected 25%% needs_improvement, got %+v", scores[0])
	}
}

func TestCalculateConceptScores_MarksMode(t *testing.T) {
	results := []selection.TestResult{
		selection.MarksResult(2, selection.Medium, 4, 4),
	}

	scores := selection.CalculateConceptScores(results, selection.CountUnscoredAsIncorrect)

	if len(scores) != 1 || scores[0].ConceptID != 2 {
		t.Fatalf("expected a single score for concept 2, got %+v", scores)
	}
	if scores[0].Percentage != 100 || scores[0].Score != selection.VeryGood {
		t.Errorf("expected 100%% very_good, got %+v", scores[0])
	}
}

func TestCalculateConceptScores_PartialMarks(t *testing.T) {
	// hard 3/6 -> 1.5 of 3, easy 1/1 -> 1 of 1: 2.5 / 4 = 62.5 -> 63
	results := []selection.TestResult{
		selection.MarksResult(1, selection.Hard, 6, 3),
		selection.MarksResult(1, selection.Easy, 1, 1),
	}

	scores := selection.CalculateConceptScores(results, selection.CountUnscoredAsIncorrect)

	if scores[0].Percentage != 63 || scores[0].Score != selection.Good {
		t.Errorf("expected 63%% good, got %+v", scores[0])
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		percentage int
		expected   selection.ComfortLevel
	}{
		{100, selection.VeryGood},
		{75, selection.VeryGood},
		{74, selection.Good},
		{50, selection.Good},
		{49, selection.NeedsImprovement},
		{0, selection.NeedsImprovement},
	}

	for _, tc := range tests {
		if got := selection.Classify(tc.percentage); got != tc.expected {
			t.Errorf("Classify(%d) = %s, expected %s", tc.percentage, got, tc.expected)
		}
	}
}

func TestCalculateConceptScores_ThresholdsFromResults(t *testing.T) {
	tests := []struct {
		name     string
		results  []selection.TestResult
		expected selection.ComfortLevel
	}{
		{
			name: "exactly 75",
			results: []selection.TestResult{
				selection.BooleanResult(1, selection.Easy, true),
				selection.BooleanResult(1, selection.Easy, true),
				selection.BooleanResult(1, selection.Easy, true),
				selection.BooleanResult(1, selection.Easy, false),
			},
			expected: selection.VeryGood,
		},
		{
			name: "exactly 50",
			results: []selection.TestResult{
				selection.BooleanResult(1, selection.Medium, true),
				selection.BooleanResult(1, selection.Medium, false),
			},
			expected: selection.Good,
		},
		{
			name:     "49",
			results:  []selection.TestResult{selection.MarksResult(1, selection.Easy, 100, 49)},
			expected: selection.NeedsImprovement,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scores := selection.CalculateConceptScores(tc.results, selection.CountUnscoredAsIncorrect)
			if scores[0].Score != tc.expected {
				t.Errorf("expected %s, got %+v", tc.expected, scores[0])
			}
		})
	}
}

func TestCalculateConceptScores_MultiConcept(t *testing.T) {
	results := []selection.TestResult{
		selection.BooleanResult(2, selection.Hard, true),
		selection.BooleanResult(1, selection.Easy, false),
		selection.BooleanResult(2, selection.Easy, false),
		selection.BooleanResult(1, selection.Medium, true),
	}

	scores := selection.CalculateConceptScores(results, selection.CountUnscoredAsIncorrect)

	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0].ConceptID != 1 || scores[0].Percentage != 67 {
		t.Errorf("concept 1: expected 67%%, got %+v", scores[0])
	}
	if scores[1].ConceptID != 2 || scores[1].Percentage != 75 {
		t.Errorf("concept 2: expected 75%%, got %+v", scores[1])
	}
}

func TestCalculateConceptScores_UnscoredPolicy(t *testing.T) {
	results := []selection.TestResult{
		selection.BooleanResult(1, selection.Easy, true),
		selection.UnscoredResult(1, selection.Easy),
		selection.UnscoredResult(3, selection.Hard),
	}

	counted := selection.CalculateConceptScores(results, selection.CountUnscoredAsIncorrect)
	if len(counted) != 2 {
		t.Fatalf("expected 2 scores when unscored counts, got %d", len(counted))
	}
	if counted[0].Percentage != 50 {
		t.Errorf("expected unscored to count as incorrect (50%%), got %+v", counted[0])
	}
	if counted[1].ConceptID != 3 || counted[1].Percentage != 0 {
		t.Errorf("expected concept 3 at 0%%, got %+v", counted[1])
	}

	skipped := selection.CalculateConceptScores(results, selection.SkipUnscored)
	if len(skipped) != 1 {
		t.Fatalf("expected concept 3 to be dropped when unscored is skipped, got %+v", skipped)
	}
	if skipped[0].Percentage != 100 {
		t.Errorf("expected 100%%, got %+v", skipped[0])
	}
}

func TestCalculateConceptScores_Empty(t *testing.T) {
	scores := selection.CalculateConceptScores(nil, selection.CountUnscoredAsIncorrect)
	if len(scores) != 0 {
		t.Errorf("expected no scores, got %+v", scores)
	}
}

func TestNewTestResult_Precedence(t *testing.T) {
	yes := true
	four, two, zero := 4.0, 2.0, 0.0

	tests := []struct {
		name     string
		correct  *bool
		eligible *float64
		obtained *float64
		expected selection.ResultKind
	}{
		{"marks win over correctness", &yes, &four, &two, selection.ResultMarks},
		{"zero eligible falls back to correctness", &yes, &zero, &two, selection.ResultBoolean},
		{"missing obtained falls back to correctness", &yes, &four, nil, selection.ResultBoolean},
		{"nothing present", nil, nil, nil, selection.ResultUnscored},
		{"zero eligible and no correctness", nil, &zero, &two, selection.ResultUnscored},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := selection.NewTestResult(1, selection.Easy, tc.correct, tc.eligible, tc.obtained)
			if r.Kind() != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, r.Kind())
			}
		})
	}
}

func TestParseCorrect(t *testing.T) {
	yes := true
	tests := []struct {
		name    string
		in      any
		correct bool
		present bool
	}{
		{"nil", nil, false, false},
		{"true", true, true, true},
		{"false", false, false, true},
		{"pointer", &yes, true, true},
		{"upper string", "TRUE", true, true},
		{"lower string", "true", true, true},
		{"mixed string", "True", false, true},
		{"other string", "no", false, true},
		{"number", 1, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, present := selection.ParseCorrect(tc.in)
			if correct != tc.correct || present != tc.present {
				t.Errorf("ParseCorrect(%v) = (%v, %v), expected (%v, %v)", tc.in, correct, present, tc.correct, tc.present)
			}
		})
	}
}
