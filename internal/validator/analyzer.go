// Package validator provides static test analysis and quality scoring.
package validator

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Analysis contains the static assessment of a test file
type Analysis struct {
	AssertionCount   int            `json:"assertion_count"`
	AssertionsByTest map[string]int `json:"assertions_by_test"`
	TrivialCount     int            `json:"trivial_count"`
	AssertionTypes   map[string]int `json:"assertion_types"`
	Issues           []Issue        `json:"issues,omitempty"`
	TargetCalled     bool           `json:"target_called"`
}

// Issue represents a problem found in the test file
type Issue struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Line        int    `json:"line,omitempty"`
	TestName    string `json:"test_name,omitempty"`
}

// Issue types
const (
	IssueNoAssertions     = "no_assertions"
	IssueTrivialAssertion = "trivial_assertion"
	IssueTargetNotCalled  = "target_not_called"
)

// Analyzer performs regex-driven static analysis on test code. It never
// executes the tests.
type Analyzer struct {
	language string

	// targetFunctions are the source file's function names; the analysis
	// checks that the test actually calls at least one of them.
	targetFunctions []string
}

// NewAnalyzer creates an analyzer for a language ("go", "python",
// "javascript", "typescript").
func NewAnalyzer(language string, targetFunctions []string) *Analyzer {
	return &Analyzer{
		language:        language,
		targetFunctions: targetFunctions,
	}
}

// DetectLanguage guesses the language from a file extension.
func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".jsx":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	default:
		return ""
	}
}

// Analyze inspects test code for assertion quality
func (a *Analyzer) Analyze(code string) *Analysis {
	result := &Analysis{
		AssertionsByTest: make(map[string]int),
		AssertionTypes:   make(map[string]int),
		Issues:           []Issue{},
	}

	switch a.language {
	case "go":
		a.analyzeTests(code, result, goTestPatterns)
	case "python":
		a.analyzeTests(code, result, pythonTestPatterns)
	case "javascript", "typescript":
		a.analyzeTests(code, result, jsTestPatterns)
	}

	result.TargetCalled = a.isTargetCalled(code)
	if !result.TargetCalled && len(a.targetFunctions) > 0 {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueTargetNotCalled,
			Description: "None of the source file's functions are called from the test",
		})
	}

	return result
}

// languagePatterns bundles the regexes for one language's test idiom
type languagePatterns struct {
	testFunc      *regexp.Regexp
	testNameIndex int
	assertions    []*regexp.Regexp
	trivial       []*regexp.Regexp
	classify      func(line string) string
}

var goTestPatterns = languagePatterns{
	testFunc:      regexp.MustCompile(`func\s+(Test\w+)\s*\(`),
	testNameIndex: 1,
	assertions: []*regexp.Regexp{
		regexp.MustCompile(`\.(Equal|NotEqual|True|False|Nil|NotNil|Error|NoError|Contains|Len|Empty|NotEmpty|Greater|Less|Panics)\s*\(`),
		regexp.MustCompile(`t\.(Error|Errorf|Fatal|Fatalf|Fail|FailNow)\s*\(`),
		regexp.MustCompile(`if\s+.*\s*!=\s*.*\s*\{\s*t\.`),
	},
	trivial: []*regexp.Regexp{
		regexp.MustCompile(`Equal\s*\(\s*(\d+)\s*,\s*(\d+)\s*\)`),
		regexp.MustCompile(`Equal\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`),
		regexp.MustCompile(`Equal\s*\(\s*(\w+)\s*,\s*(\w+)\s*\)`),
		regexp.MustCompile(`True\s*\(\s*(true)()\s*\)`),
		regexp.MustCompile(`False\s*\(\s*(false)()\s*\)`),
	},
	classify: func(line string) string {
		switch {
		case strings.Contains(line, ".Equal"):
			return "equality"
		case strings.Contains(line, ".Error"), strings.Contains(line, ".NoError"):
			return "error"
		case strings.Contains(line, ".Nil"), strings.Contains(line, ".NotNil"):
			return "nil"
		case strings.Contains(line, ".True"), strings.Contains(line, ".False"):
			return "boolean"
		default:
			return "other"
		}
	},
}

var pythonTestPatterns = languagePatterns{
	testFunc:      regexp.MustCompile(`def\s+(test_\w+)\s*\(`),
	testNameIndex: 1,
	assertions: []*regexp.Regexp{
		regexp.MustCompile(`assert\s+`),
		regexp.MustCompile(`self\.assert\w+\s*\(`),
		regexp.MustCompile(`pytest\.raises\s*\(`),
	},
	trivial: []*regexp.Regexp{
		regexp.MustCompile(`assert\s+(\d+)\s*==\s*(\d+)`),
		regexp.MustCompile(`assert\s+(True)()\s*$`),
		regexp.MustCompile(`assert\s+(\w+)\s*==\s*(\w+)\s*$`),
	},
	classify: func(line string) string {
		switch {
		case strings.Contains(line, "=="):
			return "equality"
		case strings.Contains(line, "raises"):
			return "error"
		case strings.Contains(line, "None"):
			return "nil"
		default:
			return "other"
		}
	},
}

var jsTestPatterns = languagePatterns{
	testFunc:      regexp.MustCompile(`(it|test)\s*\(\s*['"]([^'"]+)['"]`),
	testNameIndex: 2,
	assertions: []*regexp.Regexp{
		regexp.MustCompile(`expect\s*\(.+\)\.(toBe|toEqual|toStrictEqual|toBeTruthy|toBeFalsy|toBeNull|toBeUndefined|toThrow|toContain|toHaveLength)\s*\(`),
		regexp.MustCompile(`assert\.\w+\s*\(`),
	},
	trivial: []*regexp.Regexp{
		regexp.MustCompile(`expect\s*\(\s*(\d+)\s*\)\.toBe\s*\(\s*(\d+)\s*\)`),
		regexp.MustCompile(`expect\s*\(\s*(true)\s*\)\.toBe\s*\(\s*(true)\s*\)`),
		regexp.MustCompile(`expect\s*\(\s*(\w+)\s*\)\.toBe\s*\(\s*(\w+)\s*\)`),
	},
	classify: func(line string) string {
		switch {
		case strings.Contains(line, "toBe"), strings.Contains(line, "toEqual"):
			return "equality"
		case strings.Contains(line, "toThrow"):
			return "error"
		case strings.Contains(line, "toBeNull"), strings.Contains(line, "toBeUndefined"):
			return "nil"
		default:
			return "other"
		}
	},
}

// analyzeTests runs the shared per-line scan with one language's patterns
func (a *Analyzer) analyzeTests(code string, result *Analysis, patterns languagePatterns) {
	lines := strings.Split(code, "\n")

	currentTest := ""
	for lineNum, line := range lines {
		if match := patterns.testFunc.FindStringSubmatch(line); len(match) > patterns.testNameIndex {
			currentTest = match[patterns.testNameIndex]
			result.AssertionsByTest[currentTest] = 0
		}

		for _, pattern := range patterns.assertions {
			if pattern.MatchString(line) {
				result.AssertionCount++
				if currentTest != "" {
					result.AssertionsByTest[currentTest]++
				}
				result.AssertionTypes[patterns.classify(line)]++
			}
		}

		for _, pattern := range patterns.trivial {
			matches := pattern.FindStringSubmatch(line)
			if len(matches) < 3 {
				continue
			}
			// A comparison is trivial only when both sides are the same
			// token; single-token patterns capture an empty second group.
			if matches[1] == matches[2] || matches[2] == "" {
				result.TrivialCount++
				result.Issues = append(result.Issues, Issue{
					Type:        IssueTrivialAssertion,
					Description: "Trivial assertion that can never fail",
					Line:        lineNum + 1,
					TestName:    currentTest,
				})
				break
			}
		}
	}

	for testName, count := range result.AssertionsByTest {
		if count == 0 {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueNoAssertions,
				Description: "Test function has no assertions",
				TestName:    testName,
			})
		}
	}
}

// isTargetCalled checks whether any target function name appears as a call
func (a *Analyzer) isTargetCalled(code string) bool {
	if len(a.targetFunctions) == 0 {
		return true
	}

	for _, fn := range a.targetFunctions {
		pattern := regexp.MustCompile(regexp.QuoteMeta(fn) + `\s*\(`)
		if pattern.MatchString(code) {
			return true
		}
	}
	return false
}
