package selection

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// DifficultyPriority is the order in which difficulty quotas are filled.
var DifficultyPriority = []Difficulty{Hard, Medium, Easy}

// Weight returns the scoring weight of the difficulty. Unknown values weigh 1.
func (d Difficulty) Weight() int {
	switch d {
	case Hard:
		return 3
	case Medium:
		return 2
	default:
		return 1
	}
}

func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// ParseDifficulty accepts any casing of Easy, Medium or Hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

const TypeMCQ = "MCQ"

// Question is the read-only view of a question bank item used by selection.
type Question struct {
	ID         uint
	ConceptID  uint
	Difficulty Difficulty
	Type       string
}

func (q Question) IsMCQ() bool {
	return strings.EqualFold(q.Type, TypeMCQ)
}

// IDs returns the ids of questions in order.
func IDs(questions []Question) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

// uniqueByID keeps the first occurrence of every id.
func uniqueByID(pool []Question) []Question {
	seen := make(map[uint]struct{}, len(pool))
	out := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}
