package selection

import (
	"errors"
	"fmt"
)

type RoundKind string

const (
	RoundDiagnostic RoundKind = "diagnostic"
	RoundRevision   RoundKind = "revision"
	RoundTest       RoundKind = "test"
)

func (k RoundKind) Valid() bool {
	return k == RoundDiagnostic || k == RoundRevision || k == RoundTest
}

// Quotas are the target number of questions per difficulty.
type Quotas struct {
	Hard   int `json:"hard"`
	Medium int `json:"medium"`
	Easy   int `json:"easy"`
}

func (q Quotas) For(d Difficulty) int {
	switch d {
	case Hard:
		return q.Hard
	case Medium:
		return q.Medium
	case Easy:
		return q.Easy
	}
	return 0
}

func (q Quotas) Total() int {
	return q.Hard + q.Medium + q.Easy
}

// TypeQuotas is a soft preference for the MCQ / non-MCQ mix of a selection.
type TypeQuotas struct {
	MCQ    int `json:"mcq"`
	NonMCQ int `json:"nonMcq"`
}

// SelectionConfig parameterises the stratified selector for one round kind.
type SelectionConfig struct {
	Kind       RoundKind   `json:"kind"`
	Quotas     Quotas      `json:"quotas"`
	MinSize    int         `json:"minSize"`
	MaxSize    int         `json:"maxSize"`
	TypeQuotas *TypeQuotas `json:"typeQuotas,omitempty"`
}

func (c SelectionConfig) Validate() error {
	if c.MinSize < 0 || c.MaxSize < 0 {
		return fmt.Errorf("%s: sizes must not be negative", c.Kind)
	}
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("%s: minSize %d exceeds maxSize %d", c.Kind, c.MinSize, c.MaxSize)
	}
	if c.Quotas.Hard < 0 || c.Quotas.Medium < 0 || c.Quotas.Easy < 0 {
		return fmt.Errorf("%s: quotas must not be negative", c.Kind)
	}
	if c.Quotas.Total() > c.MaxSize {
		return fmt.Errorf("%s: quotas total %d exceeds maxSize %d", c.Kind, c.Quotas.Total(), c.MaxSize)
	}
	if tq := c.TypeQuotas; tq != nil && (tq.MCQ < 0 || tq.NonMCQ < 0) {
		return fmt.Errorf("%s: type quotas must not be negative", c.Kind)
	}
	return nil
}

// DiagnosticConfig parameterises the diagnostic allocator.
type DiagnosticConfig struct {
	MinSize           int    `json:"minSize"`
	MaxSize           int    `json:"maxSize"`
	PerConceptMinHard int    `json:"perConceptMinHard"`
	PoolType          string `json:"poolType"`
	PoolStatus        string `json:"poolStatus"`
}

func (c DiagnosticConfig) Validate() error {
	if c.MinSize < 0 || c.PerConceptMinHard < 0 {
		return errors.New("diagnostic: sizes must not be negative")
	}
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("diagnostic: minSize %d exceeds maxSize %d", c.MinSize, c.MaxSize)
	}
	return nil
}

// RevisionConfig is the parameter set for revision rounds.
func RevisionConfig() SelectionConfig {
	return SelectionConfig{
		Kind:       RoundRevision,
		Quotas:     Quotas{Hard: 2, Medium: 4, Easy: 4},
		MinSize:    5,
		MaxSize:    10,
		TypeQuotas: &TypeQuotas{MCQ: 7, NonMCQ: 3},
	}
}

// TestConfig is the parameter set for test rounds.
func TestConfig() SelectionConfig {
	return SelectionConfig{
		Kind:       RoundTest,
		Quotas:     Quotas{Hard: 3, Medium: 4, Easy: 3},
		MinSize:    8,
		MaxSize:    10,
		TypeQuotas: &TypeQuotas{MCQ: 6, NonMCQ: 4},
	}
}

// DiagnosticSelectionConfig is the parameter set for chapter diagnostics.
func DiagnosticSelectionConfig() DiagnosticConfig {
	return DiagnosticConfig{
		MinSize:           10,
		MaxSize:           25,
		PerConceptMinHard: 1,
		PoolType:          TypeMCQ,
		PoolStatus:        "active",
	}
}

// ConfigFor returns the selector parameters of a quota-based round kind.
func ConfigFor(kind RoundKind) (SelectionConfig, bool) {
	switch kind {
	case RoundRevision:
		return RevisionConfig(), true
	case RoundTest:
		return TestConfig(), true
	}
	return SelectionConfig{}, false
}
