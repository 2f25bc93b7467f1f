package selection

import "fmt"

// Selector draws stratified samples from a question pool.
type Selector struct {
	rand Rand
}

func NewSelector(r Rand) *Selector {
	if r == nil {
		r = DefaultRand()
	}
	return &Selector{rand: r}
}

// Select applies a named parameter set.
func (s *Selector) Select(pool []Question, cfg SelectionConfig) []Question {
	return s.SelectQuestions(pool, cfg.Quotas, cfg.MaxSize, cfg.TypeQuotas)
}

// SelectQuestions returns at most maxSize distinct questions from pool. Difficulty
// quotas are filled Hard first, then Medium, then Easy; any shortfall is backfilled
// from the remaining buckets in the same order. Quotas are targets, not guarantees:
// a pool short on one tier yields a smaller share of that tier, never an error.
// typeQuotas, when set, moves that many MCQ and non-MCQ questions to the front of
// their difficulty buckets before quotas are filled.
func (s *Selector) SelectQuestions(pool []Question, quotas Quotas, maxSize int, typeQuotas *TypeQuotas) []Question {
	if maxSize < 0 {
		panic(fmt.Sprintf("selection: negative maxSize %d", maxSize))
	}

	working := s.prioritize(uniqueByID(pool), typeQuotas)

	buckets := make(map[Difficulty][]Question, len(DifficultyPriority)+1)
	var other []Question
	for _, q := range working {
		if q.Difficulty.Valid() {
			buckets[q.Difficulty] = append(buckets[q.Difficulty], q)
		} else {
			other = append(other, q)
		}
	}

	result := make([]Question, 0, maxSize)
	chosen := make(map[uint]struct{}, maxSize)
	add := func(q Question) {
		chosen[q.ID] = struct{}{}
		result = append(result, q)
	}

	for _, d := range DifficultyPriority {
		want := quotas.For(d)
		for i := 0; i < want && i < len(buckets[d]); i++ {
			add(buckets[d][i])
		}
	}

	tiers := make([][]Question, 0, len(DifficultyPriority)+1)
	for _, d := range DifficultyPriority {
		tiers = append(tiers, buckets[d])
	}
	tiers = append(tiers, other)

backfill:
	for _, tier := range tiers {
		for _, q := range tier {
			if len(result) >= maxSize {
				break backfill
			}
			if _, ok := chosen[q.ID]; !ok {
				add(q)
			}
		}
	}

	result = Shuffle(s.rand, result)
	if len(result) > maxSize {
		result = result[:maxSize]
	}
	return result
}

// prioritize orders the pool as: the sampled MCQs, the sampled non-MCQs, then every
// other question. Each tier is shuffled on its own.
func (s *Selector) prioritize(pool []Question, tq *TypeQuotas) []Question {
	if tq == nil {
		return Shuffle(s.rand, pool)
	}

	var mcq, nonMCQ []Question
	for _, q := range pool {
		if q.IsMCQ() {
			mcq = append(mcq, q)
		} else {
			nonMCQ = append(nonMCQ, q)
		}
	}
	mcq = Shuffle(s.rand, mcq)
	nonMCQ = Shuffle(s.rand, nonMCQ)

	takeMCQ := clamp(tq.MCQ, 0, len(mcq))
	takeNon := clamp(tq.NonMCQ, 0, len(nonMCQ))

	working := make([]Question, 0, len(pool))
	working = append(working, mcq[:takeMCQ]...)
	working = append(working, nonMCQ[:takeNon]...)

	rest := make([]Question, 0, len(pool)-takeMCQ-takeNon)
	rest = append(rest, mcq[takeMCQ:]...)
	rest = append(rest, nonMCQ[takeNon:]...)
	return append(working, Shuffle(s.rand, rest)...)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
