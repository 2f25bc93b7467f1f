package selection

import (
	"go.uber.org/zap"
)

// Allocator assembles chapter-wide diagnostic tests from an MCQ pool, giving each
// concept a share proportional to its pool size.
type Allocator struct {
	cfg  DiagnosticConfig
	rand Rand
	log  *zap.Logger
}

func NewAllocator(cfg DiagnosticConfig, r Rand, log *zap.Logger) *Allocator {
	if r == nil {
		r = DefaultRand()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Allocator{cfg: cfg, rand: r, log: log}
}

func (a *Allocator) Config() DiagnosticConfig {
	return a.cfg
}

// DiagnosticSize is the target test length for a pool of total questions.
func (a *Allocator) DiagnosticSize(total int) int {
	switch {
	case total <= 15:
		return min(a.cfg.MinSize, total)
	case total <= 60:
		return max(a.cfg.MinSize, roundHalfUp(float64(total)*0.25))
	default:
		return a.cfg.MaxSize
	}
}

// Allocation returns the number of slots reserved for each concept of the pool.
func (a *Allocator) Allocation(pool []Question) map[uint]int {
	pool = uniqueByID(pool)
	order, groups := groupByConcept(pool)
	return a.allocation(len(pool), order, groups)
}

// GenerateDiagnosticSelection returns the ids of the diagnostic questions. It never
// fails: an internal fault is logged and reported as an empty selection, which
// callers must read as "diagnostic unavailable".
func (a *Allocator) GenerateDiagnosticSelection(pool []Question) (ids []uint) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("diagnostic allocation failed",
				zap.Any("panic", r),
				zap.Int("pool_size", len(pool)),
			)
			ids = []uint{}
		}
	}()
	return IDs(a.allocate(pool))
}

func (a *Allocator) allocate(pool []Question) []Question {
	if len(pool) == 0 {
		return []Question{}
	}

	pool = uniqueByID(pool)
	order, groups := groupByConcept(pool)
	size := a.DiagnosticSize(len(pool))
	alloc := a.allocation(len(pool), order, groups)

	selected := make([]Question, 0, size)
	chosen := make(map[uint]struct{}, size)
	for _, conceptID := range order {
		for _, q := range a.pickForConcept(groups[conceptID], alloc[conceptID]) {
			chosen[q.ID] = struct{}{}
			selected = append(selected, q)
		}
	}

	if len(selected) < size {
		var rest []Question
		for _, q := range pool {
			if _, ok := chosen[q.ID]; !ok {
				rest = append(rest, q)
			}
		}
		for _, q := range Shuffle(a.rand, rest) {
			if len(selected) >= size {
				break
			}
			selected = append(selected, q)
		}
	}

	selected = Shuffle(a.rand, selected)
	if len(selected) > size {
		selected = selected[:size]
	}
	return selected
}

func (a *Allocator) allocation(total int, order []uint, groups map[uint][]Question) map[uint]int {
	alloc := make(map[uint]int, len(order))
	if total == 0 {
		return alloc
	}
	remaining := max(0, a.DiagnosticSize(total)-len(order))
	for _, conceptID := range order {
		n := len(groups[conceptID])
		share := roundHalfUp(float64(n) / float64(total) * float64(remaining))
		alloc[conceptID] = min(n, 1+max(0, share))
	}
	return alloc
}

// pickForConcept takes up to PerConceptMinHard hard questions, then fills the
// remaining slots from the shuffled medium, easy and leftover hard questions.
func (a *Allocator) pickForConcept(questions []Question, slots int) []Question {
	var hard, others []Question
	for _, q := range questions {
		if q.Difficulty == Hard {
			hard = append(hard, q)
		}
	}
	hard = Shuffle(a.rand, hard)

	takeHard := min(a.cfg.PerConceptMinHard, len(hard), slots)
	picked := make([]Question, 0, slots)
	picked = append(picked, hard[:max(0, takeHard)]...)

	for _, q := range questions {
		if q.Difficulty == Medium {
			others = append(others, q)
		}
	}
	for _, q := range questions {
		if q.Difficulty != Medium && q.Difficulty != Hard {
			others = append(others, q)
		}
	}
	others = append(others, hard[max(0, takeHard):]...)

	for _, q := range Shuffle(a.rand, others) {
		if len(picked) >= slots {
			break
		}
		picked = append(picked, q)
	}
	return picked
}

func groupByConcept(pool []Question) ([]uint, map[uint][]Question) {
	var order []uint
	groups := make(map[uint][]Question)
	for _, q := range pool {
		if _, ok := groups[q.ConceptID]; !ok {
			order = append(order, q.ConceptID)
		}
		groups[q.ConceptID] = append(groups[q.ConceptID], q)
	}
	return order, groups
}
