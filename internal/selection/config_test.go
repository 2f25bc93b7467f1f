package selection_test

import (
	"testing"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
)

func TestNamedConfigsAreValid(t *testing.T) {
	for _, kind := range []selection.RoundKind{selection.RoundRevision, selection.RoundTest} {
		cfg, ok := selection.ConfigFor(kind)
		if !ok {
			t.Fatalf("no config for %s", kind)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
	if err := selection.DiagnosticSelectionConfig().Validate(); err != nil {
		t.Errorf("diagnostic: %v", err)
	}
	if _, ok := selection.ConfigFor(selection.RoundDiagnostic); ok {
		t.Error("diagnostic rounds use the allocator, not a quota config")
	}
}

func TestSelectionConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  selection.SelectionConfig
	}{
		{"quotas above max", selection.SelectionConfig{Quotas: selection.Quotas{Hard: 5, Medium: 5, Easy: 5}, MinSize: 1, MaxSize: 10}},
		{"min above max", selection.SelectionConfig{MinSize: 11, MaxSize: 10}},
		{"negative size", selection.SelectionConfig{MinSize: -1, MaxSize: 10}},
		{"negative quota", selection.SelectionConfig{Quotas: selection.Quotas{Easy: -1}, MaxSize: 10}},
		{"negative type quota", selection.SelectionConfig{MaxSize: 10, TypeQuotas: &selection.TypeQuotas{MCQ: -2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNamedConfigsAreCopies(t *testing.T) {
	cfg := selection.RevisionConfig()
	cfg.TypeQuotas.MCQ = 0
	cfg.Quotas.Hard = 99

	fresh := selection.RevisionConfig()
	if fresh.TypeQuotas.MCQ == 0 || fresh.Quotas.Hard == 99 {
		t.Error("named configs must not be mutable through returned values")
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, expected := range map[string]selection.Difficulty{"easy": selection.Easy, "MEDIUM": selection.Medium, " Hard ": selection.Hard} {
		got, err := selection.ParseDifficulty(in)
		if err != nil || got != expected {
			t.Errorf("ParseDifficulty(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := selection.ParseDifficulty("extreme"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
