package mutation

import (
	"sort"
	"strings"
)

// Ranker assigns a selection priority to a candidate mutation. Higher ranks
// are selected first when the budget cannot cover every candidate.
type Ranker interface {
	Rank(m Mutation) int
}

// categoryRanker is the default ranking: boundary-comparison mutants first,
// then boolean and equality mutants, then everything else. Boundary
// conditions are the classic blind spot of shallow tests, so the limited
// budget goes there first.
type categoryRanker struct{}

func (categoryRanker) Rank(m Mutation) int {
	switch {
	case strings.Contains(m.Description, "boundary"):
		return 2
	case strings.Contains(m.Description, "boolean"), strings.Contains(m.Description, "equality"):
		return 1
	default:
		return 0
	}
}

// Sampler narrows a candidate list to a budget.
type Sampler struct {
	ranker Ranker
}

// NewSampler creates a sampler with the given ranking strategy; nil selects
// the default category ranker.
func NewSampler(r Ranker) *Sampler {
	if r == nil {
		r = categoryRanker{}
	}
	return &Sampler{ranker: r}
}

// Select returns at most budget candidates. When the budget already covers
// the whole list (or is unbounded) the input is returned unchanged and in
// the same order. Otherwise candidates are stably sorted by descending rank,
// ties keeping generation order, and the first budget entries are kept.
func (s *Sampler) Select(candidates []Mutation, budget Budget) []Mutation {
	if budget.Unbounded() || len(candidates) <= int(budget) {
		return candidates
	}

	ranked := make([]Mutation, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return s.ranker.Rank(ranked[i]) > s.ranker.Rank(ranked[j])
	})

	return ranked[:int(budget)]
}
