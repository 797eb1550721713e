package validator

import (
	"strings"
	"testing"

	"github.com/mutant-hq/mutant/internal/mutation"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"calc.go", "go"},
		{"calc_test.go", "go"},
		{"calc.py", "python"},
		{"calc.js", "javascript"},
		{"calc.jsx", "javascript"},
		{"calc.ts", "typescript"},
		{"calc.tsx", "typescript"},
		{"calc.rb", ""},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectLanguage(tt.path); got != tt.want {
				t.Errorf("DetectLanguage(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestAnalyze_GoAssertions(t *testing.T) {
	code := `package calc

import "testing"

func TestAdd(t *testing.T) {
	got := Add(2, 3)
	if got != 5 {
		t.Errorf("Add(2, 3) = %d, want 5", got)
	}
}

func TestSub(t *testing.T) {
	_ = Sub(5, 3)
}
`

	a := NewAnalyzer("go", []string{"Add", "Sub"})
	analysis := a.Analyze(code)

	if analysis.AssertionCount == 0 {
		t.Error("AssertionCount = 0, want at least 1")
	}
	if !analysis.TargetCalled {
		t.Error("TargetCalled = false, want true")
	}

	var hasNoAssertions bool
	for _, issue := range analysis.Issues {
		if issue.Type == IssueNoAssertions && issue.TestName == "TestSub" {
			hasNoAssertions = true
		}
	}
	if !hasNoAssertions {
		t.Error("expected a no_assertions issue for TestSub")
	}
}

func TestAnalyze_TrivialAssertions(t *testing.T) {
	tests := []struct {
		name     string
		language string
		code     string
	}{
		{
			"go equal constants",
			"go",
			"func TestX(t *testing.T) {\n\tassert.Equal(5, 5)\n}\n",
		},
		{
			"python assert true",
			"python",
			"def test_x():\n    assert True\n",
		},
		{
			"js expect true",
			"javascript",
			"it('x', () => {\n  expect(true).toBe(true);\n});\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.language, nil)
			analysis := a.Analyze(tt.code)

			if analysis.TrivialCount == 0 {
				t.Error("TrivialCount = 0, want at least 1")
			}
		})
	}
}

func TestAnalyze_NonTrivialComparisonNotFlagged(t *testing.T) {
	code := "func TestX(t *testing.T) {\n\tassert.Equal(got, want)\n}\n"

	a := NewAnalyzer("go", nil)
	analysis := a.Analyze(code)

	if analysis.TrivialCount != 0 {
		t.Errorf("TrivialCount = %d, want 0 for distinct operands", analysis.TrivialCount)
	}
}

func TestAnalyze_TargetNotCalled(t *testing.T) {
	code := `def test_something():
    assert helper() == 3
`

	a := NewAnalyzer("python", []string{"compute_total"})
	analysis := a.Analyze(code)

	if analysis.TargetCalled {
		t.Error("TargetCalled = true, want false")
	}

	var found bool
	for _, issue := range analysis.Issues {
		if issue.Type == IssueTargetNotCalled {
			found = true
		}
	}
	if !found {
		t.Error("expected a target_not_called issue")
	}
}

func TestAnalyze_NoTargetsAssumesCalled(t *testing.T) {
	a := NewAnalyzer("go", nil)
	analysis := a.Analyze("func TestX(t *testing.T) { t.Error(\"x\") }")

	if !analysis.TargetCalled {
		t.Error("TargetCalled = false, want true when no targets are given")
	}
}

func TestAnalyze_UnknownLanguage(t *testing.T) {
	a := NewAnalyzer("ruby", nil)
	analysis := a.Analyze("def test_x\n  assert_equal 1, 1\nend\n")

	if analysis.AssertionCount != 0 {
		t.Errorf("AssertionCount = %d, want 0 for unsupported language", analysis.AssertionCount)
	}
}

func TestWeights_Valid(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		want    bool
	}{
		{"defaults", DefaultWeights(), true},
		{"custom summing to 1", Weights{Mutation: 0.6, Assertion: 0.2, Static: 0.2}, true},
		{"sum below 1", Weights{Mutation: 0.5, Assertion: 0.2, Static: 0.1}, false},
		{"sum above 1", Weights{Mutation: 0.9, Assertion: 0.9, Static: 0.9}, false},
		{"zero", Weights{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.weights.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_CombinesWeightedComponents(t *testing.T) {
	analysis := &Analysis{
		AssertionCount:   4,
		AssertionsByTest: map[string]int{"TestAdd": 2, "TestSub": 2},
		AssertionTypes:   map[string]int{"equality": 2, "error": 2},
		Issues:           []Issue{},
		TargetCalled:     true,
	}
	mutationResult := &mutation.Result{
		SourcePath: "calc.go",
		Total:      10,
		Killed:     8,
		Survived:   2,
	}

	score := NewScorer(DefaultWeights()).Score(analysis, mutationResult)

	// assertion 1.0 * 0.25 + mutation 0.8 * 0.50 + static 1.0 * 0.25
	want := 0.25 + 0.40 + 0.25
	if score.Score < want-0.001 || score.Score > want+0.001 {
		t.Errorf("Score = %f, want %f", score.Score, want)
	}
	if score.Grade != "A" {
		t.Errorf("Grade = %s, want A", score.Grade)
	}
	if !score.Passed {
		t.Error("Passed = false, want true")
	}
	if score.Breakdown.MutantsKilled != 8 {
		t.Errorf("Breakdown.MutantsKilled = %d, want 8", score.Breakdown.MutantsKilled)
	}
	if score.Breakdown.MutationKillRate != 0.8 {
		t.Errorf("Breakdown.MutationKillRate = %f, want 0.8", score.Breakdown.MutationKillRate)
	}
}

func TestScore_NoAssertions(t *testing.T) {
	analysis := &Analysis{
		AssertionsByTest: map[string]int{"TestEmpty": 0},
		AssertionTypes:   map[string]int{},
		Issues: []Issue{
			{Type: IssueNoAssertions, TestName: "TestEmpty"},
		},
		TargetCalled: true,
	}

	score := NewScorer(DefaultWeights()).Score(analysis, nil)

	if score.AssertionScore != 0 {
		t.Errorf("AssertionScore = %f, want 0", score.AssertionScore)
	}
	if score.Passed {
		t.Error("Passed = true, want false")
	}
	if score.Grade != "F" {
		t.Errorf("Grade = %s, want F", score.Grade)
	}

	var hasCritical bool
	for _, issue := range score.Issues {
		if issue.Severity == "critical" && issue.Category == "assertion" {
			hasCritical = true
		}
	}
	if !hasCritical {
		t.Error("expected a critical assertion issue")
	}
}

func TestScore_NilMutationResult(t *testing.T) {
	analysis := &Analysis{
		AssertionCount:   2,
		AssertionsByTest: map[string]int{"TestX": 2},
		AssertionTypes:   map[string]int{"equality": 2},
		Issues:           []Issue{},
		TargetCalled:     true,
	}

	score := NewScorer(DefaultWeights()).Score(analysis, nil)

	if score.MutationScore != 0 {
		t.Errorf("MutationScore = %f, want 0 without a mutation run", score.MutationScore)
	}
	if score.Breakdown.MutantsTotal != 0 {
		t.Errorf("Breakdown.MutantsTotal = %d, want 0", score.Breakdown.MutantsTotal)
	}
}

func TestScore_LowKillRateIsCritical(t *testing.T) {
	analysis := &Analysis{
		AssertionCount:   2,
		AssertionsByTest: map[string]int{"TestX": 2},
		AssertionTypes:   map[string]int{"equality": 2},
		Issues:           []Issue{},
		TargetCalled:     true,
	}
	mutationResult := &mutation.Result{Total: 10, Killed: 1, Survived: 9}

	score := NewScorer(DefaultWeights()).Score(analysis, mutationResult)

	var found bool
	for _, issue := range score.Issues {
		if issue.Category == "mutation" && issue.Severity == "critical" {
			found = true
		}
	}
	if !found {
		t.Error("expected a critical mutation issue for 10% kill rate")
	}
	if !strings.Contains(score.Recommendation, "Needs work") {
		t.Errorf("Recommendation = %q, want a needs-work recommendation", score.Recommendation)
	}
}

func TestScore_InvalidWeightsFallBack(t *testing.T) {
	analysis := &Analysis{
		AssertionCount:   2,
		AssertionsByTest: map[string]int{"TestX": 2},
		AssertionTypes:   map[string]int{"equality": 2},
		Issues:           []Issue{},
		TargetCalled:     true,
	}
	mutationResult := &mutation.Result{Total: 10, Killed: 8, Survived: 2}

	bad := NewScorer(Weights{Mutation: 2, Assertion: 2, Static: 2})
	good := NewScorer(DefaultWeights())

	badScore := bad.Score(analysis, mutationResult)
	goodScore := good.Score(analysis, mutationResult)

	if badScore.Score != goodScore.Score {
		t.Errorf("invalid weights score = %f, want default-weight score %f", badScore.Score, goodScore.Score)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, "A"},
		{0.90, "A"},
		{0.85, "B"},
		{0.75, "C"},
		{0.65, "D"},
		{0.59, "F"},
		{0.0, "F"},
	}

	for _, tt := range tests {
		if got := grade(tt.score); got != tt.want {
			t.Errorf("grade(%f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
