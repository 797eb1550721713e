package mutation

import "strings"

// Summarize derives the relevance view from a result: survivors grouped by
// line in encounter order, plus one hint per mutation family, de-duplicated
// while preserving first-seen order.
func Summarize(result *Result) *Summary {
	summary := &Summary{
		SourcePath:      result.SourcePath,
		KillRatePercent: result.KillRatePercent(),
		SurvivedByLine:  make(map[int][]Run),
		Suggestions:     make([]string, 0),
	}

	seen := make(map[string]bool)
	for _, run := range result.Details {
		if run.Killed {
			continue
		}

		line := run.Mutation.Line
		summary.SurvivedByLine[line] = append(summary.SurvivedByLine[line], run)

		hint := hintForCategory(run.Mutation.Description)
		if !seen[hint] {
			seen[hint] = true
			summary.Suggestions = append(summary.Suggestions, hint)
		}
	}

	summary.LinesWithSurvived = len(summary.SurvivedByLine)

	return summary
}

// hintForCategory maps an operator category to fixed suggestion text. The
// checks run in a fixed order and the first matching family wins.
func hintForCategory(category string) string {
	switch {
	case strings.Contains(category, "return"):
		return "Tests do not verify this function's return value. Add assertions on what it returns."
	case strings.Contains(category, "comparison"), strings.Contains(category, "boundary"):
		return "A boundary condition is not covered. Add tests for values at and around the threshold."
	case strings.Contains(category, "array"), strings.Contains(category, "index"):
		return "Array indexing is unverified. Test the first, last, and out-of-range positions."
	case strings.Contains(category, "string"), strings.Contains(category, "empty"):
		return "String handling is unverified. Add a test covering the empty and non-empty cases."
	case strings.Contains(category, "increment"), strings.Contains(category, "decrement"):
		return "Counter or loop arithmetic is unverified. Assert on the final count or index."
	case strings.Contains(category, "boolean"):
		return "A flipped boolean went unnoticed. Assert on the condition's observable effect."
	case strings.Contains(category, "equality"):
		return "An equality check is unverified. Add tests that distinguish equal from unequal inputs."
	default:
		return "A code change on this line went undetected. Add an assertion covering its behavior."
	}
}
