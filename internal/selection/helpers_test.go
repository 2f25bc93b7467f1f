package selection_test

import (
	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
)

// buildPool returns n questions per difficulty for one concept, ids starting at
// firstID. Every third question is non-MCQ.
func buildPool(conceptID uint, firstID uint, hard, medium, easy int) []selection.Question {
	var pool []selection.Question
	id := firstID
	add := func(d selection.Difficulty, n int) {
		for i := 0; i < n; i++ {
			typ := selection.TypeMCQ
			if id%3 == 0 {
				typ = "Short"
			}
			pool = append(pool, selection.Question{ID: id, ConceptID: conceptID, Difficulty: d, Type: typ})
			id++
		}
	}
	add(selection.Hard, hard)
	add(selection.Medium, medium)
	add(selection.Easy, easy)
	return pool
}

func countByDifficulty(qs []selection.Question) map[selection.Difficulty]int {
	counts := map[selection.Difficulty]int{}
	for _, q := range qs {
		counts[q.Difficulty]++
	}
	return counts
}

func hasDuplicateIDs(ids []uint) bool {
	seen := map[uint]bool{}
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
