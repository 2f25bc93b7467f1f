package selection

import "sort"

// ExclusionPolicy names which completed prior rounds remove questions from the
// next round's candidate pool.
type ExclusionPolicy struct {
	ExcludeDiagnostic bool `json:"excludeDiagnostic"`
	ExcludeRevisions  bool `json:"excludeRevisions"`
	ExcludeTests      bool `json:"excludeTests"`
}

// ExclusionPolicyFor returns the policy of a round kind. Revision rounds skip only
// previously revised questions; diagnostic questions stay eligible for revision.
// Test rounds skip everything the student has already seen for the concept.
// Diagnostics exclude nothing.
func ExclusionPolicyFor(kind RoundKind) ExclusionPolicy {
	switch kind {
	case RoundRevision:
		return ExclusionPolicy{ExcludeRevisions: true}
	case RoundTest:
		return ExclusionPolicy{ExcludeDiagnostic: true, ExcludeRevisions: true, ExcludeTests: true}
	}
	return ExclusionPolicy{}
}

// Kinds lists the prior round kinds whose questions are excluded.
func (p ExclusionPolicy) Kinds() []RoundKind {
	var kinds []RoundKind
	if p.ExcludeDiagnostic {
		kinds = append(kinds, RoundDiagnostic)
	}
	if p.ExcludeRevisions {
		kinds = append(kinds, RoundRevision)
	}
	if p.ExcludeTests {
		kinds = append(kinds, RoundTest)
	}
	return kinds
}

// AttemptHistory holds completed question ids per round kind for one user and
// concept.
type AttemptHistory map[RoundKind][]uint

// Build unions the history of every excluded kind.
func (p ExclusionPolicy) Build(history AttemptHistory) IDSet {
	set := IDSet{}
	for _, kind := range p.Kinds() {
		for _, id := range history[kind] {
			set[id] = struct{}{}
		}
	}
	return set
}

type IDSet map[uint]struct{}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s IDSet) IDs() []uint {
	ids := make([]uint, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FilterPool drops excluded questions, keeping order.
func FilterPool(pool []Question, excluded IDSet) []Question {
	out := make([]Question, 0, len(pool))
	for _, q := range pool {
		if !excluded.Has(q.ID) {
			out = append(out, q)
		}
	}
	return out
}
