package validator

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/mutation"
)

// QualityScore represents the overall quality assessment of a test file
type QualityScore struct {
	Score          float64          `json:"score"` // 0-1
	Grade          string           `json:"grade"` // A, B, C, D, F
	Passed         bool             `json:"passed"`
	AssertionScore float64          `json:"assertion_score"` // 0-1
	MutationScore  float64          `json:"mutation_score"`  // 0-1
	StaticScore    float64          `json:"static_score"`    // 0-1
	Issues         []QualityIssue   `json:"issues,omitempty"`
	Breakdown      QualityBreakdown `json:"breakdown"`
	Recommendation string           `json:"recommendation,omitempty"`
}

// QualityIssue represents a specific quality problem
type QualityIssue struct {
	Severity   string `json:"severity"` // critical, warning, info
	Category   string `json:"category"` // assertion, mutation, static
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// QualityBreakdown shows the individual metrics behind the score
type QualityBreakdown struct {
	AssertionCount      int     `json:"assertion_count"`
	TrivialAssertions   int     `json:"trivial_assertions"`
	TestsWithAssertions int     `json:"tests_with_assertions"`
	TotalTests          int     `json:"total_tests"`
	TargetCalled        bool    `json:"target_called"`
	MutationKillRate    float64 `json:"mutation_kill_rate"`
	MutantsKilled       int     `json:"mutants_killed"`
	MutantsTotal        int     `json:"mutants_total"`
}

// Weights are the component weights of the combined score. They must sum
// to 1.
type Weights struct {
	Mutation  float64 `json:"mutation"`
	Assertion float64 `json:"assertion"`
	Static    float64 `json:"static"`
}

// DefaultWeights weight the mutation kill rate highest: it is the only
// component backed by actually executing the tests.
func DefaultWeights() Weights {
	return Weights{
		Mutation:  0.50,
		Assertion: 0.25,
		Static:    0.25,
	}
}

// Valid reports whether the weights sum to 1.
func (w Weights) Valid() bool {
	sum := w.Mutation + w.Assertion + w.Static
	return sum > 0.999 && sum < 1.001
}

// minPassingScore is the combined score a test file needs to pass.
const minPassingScore = 0.6

// Scorer combines a static analysis and a mutation result into one score
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer. Invalid weights fall back to the defaults.
func NewScorer(weights Weights) *Scorer {
	if !weights.Valid() {
		log.Warn().
			Float64("mutation", weights.Mutation).
			Float64("assertion", weights.Assertion).
			Float64("static", weights.Static).
			Msg("quality weights do not sum to 1, using defaults")
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// Score computes the weighted quality score. mutationResult may be nil when
// no mutation run was performed; the mutation component then scores zero.
func (s *Scorer) Score(analysis *Analysis, mutationResult *mutation.Result) *QualityScore {
	result := &QualityScore{
		Issues: []QualityIssue{},
	}

	result.AssertionScore = s.scoreAssertions(analysis, result)
	result.MutationScore = s.scoreMutation(mutationResult, result)
	result.StaticScore = s.scoreStatic(analysis, result)

	result.Breakdown.AssertionCount = analysis.AssertionCount
	result.Breakdown.TrivialAssertions = analysis.TrivialCount
	result.Breakdown.TotalTests = len(analysis.AssertionsByTest)
	result.Breakdown.TargetCalled = analysis.TargetCalled
	for _, count := range analysis.AssertionsByTest {
		if count > 0 {
			result.Breakdown.TestsWithAssertions++
		}
	}
	if mutationResult != nil {
		result.Breakdown.MutationKillRate = float64(mutationResult.KillRatePercent()) / 100
		result.Breakdown.MutantsKilled = mutationResult.Killed
		result.Breakdown.MutantsTotal = mutationResult.Total
	}

	result.Score = result.AssertionScore*s.weights.Assertion +
		result.MutationScore*s.weights.Mutation +
		result.StaticScore*s.weights.Static
	result.Grade = grade(result.Score)
	result.Passed = result.Score >= minPassingScore
	result.Recommendation = recommendation(result)

	log.Info().
		Float64("score", result.Score).
		Str("grade", result.Grade).
		Bool("passed", result.Passed).
		Int("issues", len(result.Issues)).
		Msg("quality assessment complete")

	return result
}

// scoreAssertions rates assertion density and quality
func (s *Scorer) scoreAssertions(analysis *Analysis, result *QualityScore) float64 {
	score := 1.0

	if analysis.AssertionCount == 0 {
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "critical",
			Category:   "assertion",
			Message:    "The test file contains no assertions",
			Suggestion: "Add assertions that verify the expected behavior",
		})
		return 0
	}

	emptyTests := 0
	for _, count := range analysis.AssertionsByTest {
		if count == 0 {
			emptyTests++
		}
	}
	if emptyTests > 0 && len(analysis.AssertionsByTest) > 0 {
		score -= float64(emptyTests) / float64(len(analysis.AssertionsByTest)) * 0.5
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "critical",
			Category:   "assertion",
			Message:    fmt.Sprintf("%d test(s) have no assertions", emptyTests),
			Suggestion: "Add meaningful assertions to every test",
		})
	}

	trivialPct := float64(analysis.TrivialCount) / float64(analysis.AssertionCount)
	if trivialPct > 0.25 {
		score -= (trivialPct - 0.25) / 2
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "warning",
			Category:   "assertion",
			Message:    fmt.Sprintf("%.0f%% of assertions are trivial", trivialPct*100),
			Suggestion: "Replace trivial assertions with meaningful comparisons",
		})
	}

	if !analysis.TargetCalled {
		score -= 0.3
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "critical",
			Category:   "assertion",
			Message:    "The test never calls the source file's functions",
			Suggestion: "Ensure the test actually invokes the code under test",
		})
	}

	return clamp(score)
}

// scoreMutation rates the kill rate of an executed mutation run
func (s *Scorer) scoreMutation(mutationResult *mutation.Result, result *QualityScore) float64 {
	if mutationResult == nil || mutationResult.Total == 0 {
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "info",
			Category:   "mutation",
			Message:    "No mutants were executed",
			Suggestion: "Run mutation testing to measure how effective the tests are",
		})
		return 0
	}

	killRate := float64(mutationResult.KillRatePercent()) / 100

	if killRate < 0.5 {
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "critical",
			Category:   "mutation",
			Message:    fmt.Sprintf("Mutation kill rate %.0f%% is below 50%%", killRate*100),
			Suggestion: "Tests are not detecting code changes; add more specific assertions",
		})
	}

	return killRate
}

// scoreStatic rates the findings of the static analysis
func (s *Scorer) scoreStatic(analysis *Analysis, result *QualityScore) float64 {
	score := 1.0

	for _, issue := range analysis.Issues {
		switch issue.Type {
		case IssueNoAssertions:
			score -= 0.25
		case IssueTrivialAssertion:
			score -= 0.10
		case IssueTargetNotCalled:
			score -= 0.30
		}
	}

	// All assertions of one kind suggests a single-dimension test
	if len(analysis.AssertionTypes) == 1 && analysis.AssertionCount > 3 {
		score -= 0.10
		result.Issues = append(result.Issues, QualityIssue{
			Severity:   "info",
			Category:   "static",
			Message:    "All assertions are of the same type",
			Suggestion: "Consider testing different aspects (errors, edge cases, boundaries)",
		})
	}

	return clamp(score)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// grade converts a 0-1 score to a letter grade
func grade(score float64) string {
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}

// recommendation creates actionable feedback from the collected issues
func recommendation(result *QualityScore) string {
	if result.Passed {
		if result.Grade == "A" {
			return "Excellent test quality"
		}
		return "Test meets minimum quality standards"
	}

	var critical []string
	for _, issue := range result.Issues {
		if issue.Severity == "critical" {
			critical = append(critical, issue.Suggestion)
		}
	}

	if len(critical) > 0 {
		return "Needs work: " + strings.Join(critical, "; ")
	}
	return fmt.Sprintf("Quality score %.2f is below the %.2f threshold", result.Score, minPassingScore)
}
