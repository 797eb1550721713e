package mutation

import (
	"reflect"
	"strings"
	"testing"
)

func survivor(line int, category string) Run {
	return Run{Mutation: Mutation{Line: line, Description: category}}
}

func TestSummarizeGroupsSurvivorsByLine(t *testing.T) {
	result := Aggregate("calc.go", []Run{
		survivor(3, "boolean literal: true"),
		{Mutation: Mutation{Line: 5, Description: "boundary comparison: >="}, Killed: true},
		survivor(3, "boundary comparison: >="),
		survivor(7, "return value"),
	})

	summary := Summarize(result)

	if summary.SourcePath != "calc.go" {
		t.Errorf("SourcePath = %q, want calc.go", summary.SourcePath)
	}
	if summary.LinesWithSurvived != 2 {
		t.Errorf("LinesWithSurvived = %d, want 2", summary.LinesWithSurvived)
	}
	if got := len(summary.SurvivedByLine[3]); got != 2 {
		t.Errorf("line 3 has %d survivors, want 2", got)
	}
	if got := len(summary.SurvivedByLine[7]); got != 1 {
		t.Errorf("line 7 has %d survivors, want 1", got)
	}
	if _, ok := summary.SurvivedByLine[5]; ok {
		t.Error("killed mutant on line 5 appears among survivors")
	}
}

func TestSummarizeKillRate(t *testing.T) {
	result := Aggregate("calc.go", []Run{
		{Mutation: Mutation{Line: 1}, Killed: true},
		survivor(2, "boolean literal: true"),
	})

	if summary := Summarize(result); summary.KillRatePercent != 50 {
		t.Errorf("KillRatePercent = %d, want 50", summary.KillRatePercent)
	}
}

func TestSummarizeNoSurvivors(t *testing.T) {
	result := Aggregate("calc.go", []Run{
		{Mutation: Mutation{Line: 1}, Killed: true},
	})

	summary := Summarize(result)

	if summary.LinesWithSurvived != 0 {
		t.Errorf("LinesWithSurvived = %d, want 0", summary.LinesWithSurvived)
	}
	if summary.Suggestions == nil || len(summary.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want empty non-nil slice", summary.Suggestions)
	}
}

func TestSummarizeDeduplicatesSuggestions(t *testing.T) {
	// Two survivors of the same family yield one hint; distinct families keep
	// first-seen order.
	result := Aggregate("calc.go", []Run{
		survivor(1, "return value"),
		survivor(2, "boundary comparison: >="),
		survivor(3, "return value"),
		survivor(4, "boundary comparison: <"),
	})

	summary := Summarize(result)

	if len(summary.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %v", len(summary.Suggestions), summary.Suggestions)
	}
	if !strings.Contains(summary.Suggestions[0], "return value") {
		t.Errorf("first suggestion %q should cover return values", summary.Suggestions[0])
	}
	if !strings.Contains(summary.Suggestions[1], "boundary") {
		t.Errorf("second suggestion %q should cover boundaries", summary.Suggestions[1])
	}
}

func TestHintForCategory(t *testing.T) {
	tests := []struct {
		category string
		wantPart string
	}{
		{"return value", "return"},
		{"boundary comparison: >=", "boundary"},
		{"comparison flip: <", "boundary"},
		{"array index shift", "indexing"},
		{"string literal: empty", "String handling"},
		{"increment flip", "arithmetic"},
		{"decrement flip", "arithmetic"},
		{"boolean literal: true", "boolean"},
		{"equality flip: ==", "equality"},
		{"something unknown", "went undetected"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			hint := hintForCategory(tt.category)
			if !strings.Contains(hint, tt.wantPart) {
				t.Errorf("hintForCategory(%q) = %q, want it to mention %q", tt.category, hint, tt.wantPart)
			}
		})
	}
}

func TestHintFamilyOrderReturnWins(t *testing.T) {
	// A category naming both "return" and "boundary" resolves to the return
	// family because the checks run in declared order.
	hint := hintForCategory("return boundary")
	if !strings.Contains(hint, "return") {
		t.Errorf("hintForCategory(\"return boundary\") = %q, want the return family", hint)
	}
}

func TestSummarizeIsPure(t *testing.T) {
	result := Aggregate("calc.go", []Run{
		survivor(1, "boolean literal: true"),
		{Mutation: Mutation{Line: 2}, Killed: true},
	})

	before := *result
	first := Summarize(result)
	second := Summarize(result)

	if !reflect.DeepEqual(first, second) {
		t.Error("Summarize() is not deterministic across calls")
	}
	if result.Total != before.Total || result.Killed != before.Killed || result.Survived != before.Survived {
		t.Error("Summarize() modified the result")
	}
}
