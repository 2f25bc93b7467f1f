package selection

import (
	"sort"
	"strings"
)

type ComfortLevel string

const (
	NeedsImprovement ComfortLevel = "needs_improvement"
	Good             ComfortLevel = "good"
	VeryGood         ComfortLevel = "very_good"
)

// Classify maps a percentage to a comfort level.
func Classify(percentage int) ComfortLevel {
	switch {
	case percentage >= 75:
		return VeryGood
	case percentage >= 50:
		return Good
	default:
		return NeedsImprovement
	}
}

type ResultKind int

const (
	ResultUnscored ResultKind = iota
	ResultBoolean
	ResultMarks
)

func (k ResultKind) String() string {
	switch k {
	case ResultBoolean:
		return "boolean"
	case ResultMarks:
		return "marks"
	default:
		return "unscored"
	}
}

// TestResult is one answered question. Exactly one scoring mode applies, chosen
// by the constructor used.
type TestResult struct {
	ConceptID  uint
	Difficulty Difficulty

	kind          ResultKind
	correct       bool
	eligibleMarks float64
	marksObtained float64
}

func BooleanResult(conceptID uint, d Difficulty, correct bool) TestResult {
	return TestResult{ConceptID: conceptID, Difficulty: d, kind: ResultBoolean, correct: correct}
}

// MarksResult scores by marksObtained / eligibleMarks. A non-positive
// eligibleMarks yields an unscored result.
func MarksResult(conceptID uint, d Difficulty, eligibleMarks, marksObtained float64) TestResult {
	if eligibleMarks <= 0 {
		return UnscoredResult(conceptID, d)
	}
	return TestResult{
		ConceptID:     conceptID,
		Difficulty:    d,
		kind:          ResultMarks,
		eligibleMarks: eligibleMarks,
		marksObtained: marksObtained,
	}
}

func UnscoredResult(conceptID uint, d Difficulty) TestResult {
	return TestResult{ConceptID: conceptID, Difficulty: d, kind: ResultUnscored}
}

// NewTestResult builds a result from optional raw fields. Marks take precedence
// when eligibleMarks is positive and marksObtained is present; otherwise a present
// isCorrect decides; otherwise the result is unscored.
func NewTestResult(conceptID uint, d Difficulty, isCorrect *bool, eligibleMarks, marksObtained *float64) TestResult {
	if eligibleMarks != nil && *eligibleMarks > 0 && marksObtained != nil {
		return MarksResult(conceptID, d, *eligibleMarks, *marksObtained)
	}
	if isCorrect != nil {
		return BooleanResult(conceptID, d, *isCorrect)
	}
	return UnscoredResult(conceptID, d)
}

func (r TestResult) Kind() ResultKind {
	return r.kind
}

func (r TestResult) Correct() bool {
	return r.correct
}

func (r TestResult) Marks() (eligible, obtained float64) {
	return r.eligibleMarks, r.marksObtained
}

// ParseCorrect reads a loosely typed correctness flag. Strings "TRUE" and "true"
// are correct; any other string is incorrect. present is false for nil.
func ParseCorrect(v any) (correct, present bool) {
	switch t := v.(type) {
	case nil:
		return false, false
	case bool:
		return t, true
	case *bool:
		if t == nil {
			return false, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		return s == "TRUE" || s == "true", true
	default:
		return false, true
	}
}

// UnscoredPolicy decides how results without scoring data are weighed.
type UnscoredPolicy int

const (
	// CountUnscoredAsIncorrect adds the weight to the total and nothing to the
	// weighted correct sum.
	CountUnscoredAsIncorrect UnscoredPolicy = iota
	// SkipUnscored leaves the result out of the concept entirely.
	SkipUnscored
)

type ConceptScore struct {
	ConceptID  uint         `json:"conceptId"`
	Score      ComfortLevel `json:"score"`
	Percentage int          `json:"percentage"`
}

// CalculateConceptScores returns one score per concept present in results, sorted
// by concept id. A concept whose only results are skipped by policy gets no entry.
func CalculateConceptScores(results []TestResult, policy UnscoredPolicy) []ConceptScore {
	type tally struct {
		total, weighted float64
	}
	tallies := make(map[uint]*tally)

	for _, r := range results {
		if r.kind == ResultUnscored && policy == SkipUnscored {
			continue
		}
		t, ok := tallies[r.ConceptID]
		if !ok {
			t = &tally{}
			tallies[r.ConceptID] = t
		}
		w := float64(r.Difficulty.Weight())
		t.total += w
		switch r.kind {
		case ResultMarks:
			t.weighted += r.marksObtained / r.eligibleMarks * w
		case ResultBoolean:
			if r.correct {
				t.weighted += w
			}
		}
	}

	scores := make([]ConceptScore, 0, len(tallies))
	for conceptID, t := range tallies {
		pct := roundHalfUp(t.weighted / t.total * 100)
		scores = append(scores, ConceptScore{
			ConceptID:  conceptID,
			Score:      Classify(pct),
			Percentage: pct,
		})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].ConceptID < scores[j].ConceptID })
	return scores
}
