// Package mutation implements the mutation-testing engine: it derives small
// syntactic variants of a source file, runs the project's test command against
// each one, and reports which variants the tests caught.
package mutation

import (
	"fmt"
	"strconv"
)

// Budget bounds how many mutants a single run may execute. Each mutant costs
// one full test-suite invocation, so the budget is the run's time bound.
type Budget int

// Budget presets selectable by keyword.
const (
	// BudgetQuick executes at most 10 mutants.
	BudgetQuick Budget = 10

	// BudgetThorough executes at most 25 mutants.
	BudgetThorough Budget = 25

	// BudgetAll executes every generated mutant.
	BudgetAll Budget = -1
)

// ParseBudget parses a budget keyword ("quick", "thorough", "all") or a bare
// positive integer.
func ParseBudget(s string) (Budget, error) {
	switch s {
	case "quick":
		return BudgetQuick, nil
	case "thorough":
		return BudgetThorough, nil
	case "all":
		return BudgetAll, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid budget %q: want quick, thorough, all, or a positive integer", s)
	}
	return Budget(n), nil
}

// Unbounded reports whether the budget places no limit on mutant count.
func (b Budget) Unbounded() bool {
	return b < 0
}

func (b Budget) String() string {
	switch b {
	case BudgetQuick:
		return "quick"
	case BudgetThorough:
		return "thorough"
	case BudgetAll:
		return "all"
	}
	return strconv.Itoa(int(b))
}

// Mutation is one candidate edit to the source text. Produced only by the
// Generator and immutable afterwards.
type Mutation struct {
	// Start and End are byte offsets of the edited span in the source text.
	Start int `json:"start"`
	End   int `json:"end"`

	// Line and Column are the 1-indexed position of Start.
	Line   int `json:"line"`
	Column int `json:"column"`

	// Original is the exact text at [Start,End) when the mutation was generated.
	Original string `json:"original"`

	// Replacement is the substituted text; never equal to Original.
	Replacement string `json:"replacement"`

	// Description is the category label of the operator that produced this mutation.
	Description string `json:"description"`
}

// Run is the outcome of executing the test command against one applied mutant.
type Run struct {
	Mutation Mutation `json:"mutation"`

	// Killed is true when the test command's exit status indicated failure,
	// meaning the tests caught the mutant.
	Killed bool `json:"killed"`

	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Result holds the aggregated outcome of one mutation run.
// Killed + Survived == Total == len(Details) always holds; Total may be less
// than the requested budget when selected mutants turned out to be no-ops.
type Result struct {
	SourcePath string `json:"source_path"`
	Total      int    `json:"total"`
	Killed     int    `json:"killed"`
	Survived   int    `json:"survived"`
	Details    []Run  `json:"details"`
}

// Score is the compact machine-readable view of a Result.
type Score struct {
	Total        int `json:"total"`
	Killed       int `json:"killed"`
	Survived     int `json:"survived"`
	ScorePercent int `json:"scorePercent"`
}

// KillRatePercent returns the percentage of executed mutants that were
// killed, truncated toward zero. Zero when no mutants were executed.
func (r *Result) KillRatePercent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Killed * 100 / r.Total
}

// Score returns the compact view used by the JSON output paths.
func (r *Result) Score() Score {
	return Score{
		Total:        r.Total,
		Killed:       r.Killed,
		Survived:     r.Survived,
		ScorePercent: r.KillRatePercent(),
	}
}

// Quality thresholds on the kill-rate percentage.
const (
	ThresholdGood       = 70
	ThresholdAcceptable = 50
)

// Quality labels the kill rate as "good", "acceptable", or "poor".
func (r *Result) Quality() string {
	rate := r.KillRatePercent()
	if rate >= ThresholdGood {
		return "good"
	}
	if rate >= ThresholdAcceptable {
		return "acceptable"
	}
	return "poor"
}

// HasMutants reports whether any mutants were executed.
func (r *Result) HasMutants() bool {
	return r.Total > 0
}

// HasSurvivors reports whether any mutant escaped the tests.
func (r *Result) HasSurvivors() bool {
	return r.Survived > 0
}

// Summary is the relevance view derived from a Result: survivors grouped by
// source line plus de-duplicated suggestion text. Never persisted; computed
// on demand.
type Summary struct {
	SourcePath        string        `json:"source_path"`
	KillRatePercent   int           `json:"kill_rate_percent"`
	LinesWithSurvived int           `json:"lines_with_survived"`
	SurvivedByLine    map[int][]Run `json:"survived_by_line"`
	Suggestions       []string      `json:"suggestions"`
}
