package mutation

import "strings"

// Generator scans source text against the operator catalog and emits one
// candidate Mutation per match/replacement pair.
type Generator struct {
	operators []Operator
}

// NewGenerator creates a generator over the default operator catalog.
func NewGenerator() *Generator {
	return &Generator{operators: DefaultOperators()}
}

// Generate returns every candidate mutation for source, in operator
// declaration order and match order within each operator. Pure and
// deterministic: any input, including empty or malformed text, yields a
// well-formed (possibly empty) list.
func (g *Generator) Generate(source string) []Mutation {
	mutations := make([]Mutation, 0)

	for _, op := range g.operators {
		for _, span := range op.Pattern.FindAllStringIndex(source, -1) {
			start, end := span[0], span[1]
			matched := source[start:end]
			line, column := position(source, start)

			for _, replacement := range op.Replacements {
				if replacement == matched {
					continue
				}
				mutations = append(mutations, Mutation{
					Start:       start,
					End:         end,
					Line:        line,
					Column:      column,
					Original:    matched,
					Replacement: replacement,
					Description: op.Category,
				})
			}
		}
	}

	return mutations
}

// position converts a byte offset into a 1-indexed line and column by
// counting newlines before the offset.
func position(source string, offset int) (line, column int) {
	prefix := source[:offset]
	line = strings.Count(prefix, "\n") + 1
	column = offset - strings.LastIndex(prefix, "\n")
	return line, column
}
