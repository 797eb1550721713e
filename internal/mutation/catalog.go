package mutation

import "regexp"

// Operator is one text-rewrite rule: wherever Pattern matches, each
// replacement candidate becomes one mutant. Operators are defined once per
// process and never modified.
type Operator struct {
	Pattern      *regexp.Regexp
	Replacements []string
	Category     string
}

// literal compiles a pattern that matches s exactly.
func literal(s string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(s))
}

// defaultOperators is the fixed catalog, applied in declaration order.
// Symbolic operators require surrounding spaces so that e.g. ">" never
// matches inside ">=" or "->"; this loses unpadded occurrences on purpose,
// trading recall for precision.
var defaultOperators = []Operator{
	{Pattern: literal(" >= "), Replacements: []string{" > ", " < "}, Category: "boundary comparison: >="},
	{Pattern: literal(" <= "), Replacements: []string{" < ", " > "}, Category: "boundary comparison: <="},
	{Pattern: literal(" > "), Replacements: []string{" >= ", " < "}, Category: "boundary comparison: >"},
	{Pattern: literal(" < "), Replacements: []string{" <= ", " > "}, Category: "boundary comparison: <"},
	{Pattern: literal(" == "), Replacements: []string{" != "}, Category: "equality: =="},
	{Pattern: literal(" != "), Replacements: []string{" == "}, Category: "equality: !="},
	{Pattern: literal("return true"), Replacements: []string{"return false"}, Category: "return value: boolean"},
	{Pattern: literal("return false"), Replacements: []string{"return true"}, Category: "return value: boolean"},
	{Pattern: literal("return 0"), Replacements: []string{"return 1"}, Category: "return value: numeric"},
	{Pattern: literal("return 1"), Replacements: []string{"return 0"}, Category: "return value: numeric"},
	{Pattern: literal("true"), Replacements: []string{"false"}, Category: "boolean literal: true"},
	{Pattern: literal("false"), Replacements: []string{"true"}, Category: "boolean literal: false"},
	{Pattern: literal("++"), Replacements: []string{"--"}, Category: "increment operator"},
	{Pattern: literal("--"), Replacements: []string{"++"}, Category: "decrement operator"},
	{Pattern: literal(" + "), Replacements: []string{" - "}, Category: "arithmetic: +"},
	{Pattern: literal(" - "), Replacements: []string{" + "}, Category: "arithmetic: -"},
	{Pattern: literal(" * "), Replacements: []string{" / "}, Category: "arithmetic: *"},
	{Pattern: literal(" / "), Replacements: []string{" * "}, Category: "arithmetic: /"},
	{Pattern: literal(" && "), Replacements: []string{" || "}, Category: "logical operator: &&"},
	{Pattern: literal(" || "), Replacements: []string{" && "}, Category: "logical operator: ||"},
	{Pattern: literal("[0]"), Replacements: []string{"[1]"}, Category: "array index: first element"},
	{Pattern: literal("[1]"), Replacements: []string{"[0]"}, Category: "array index: second element"},
	{Pattern: literal(`""`), Replacements: []string{`"X"`}, Category: "empty string literal"},
}

// DefaultOperators returns the built-in operator catalog.
func DefaultOperators() []Operator {
	return defaultOperators
}
