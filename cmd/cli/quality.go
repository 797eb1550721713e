package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/mutation"
	"github.com/mutant-hq/mutant/internal/parser"
	"github.com/mutant-hq/mutant/internal/validator"
)

func qualityCmd() *cobra.Command {
	var (
		sourceFile  string
		testFile    string
		withMutants bool
		testCommand string
		budgetStr   string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Score the quality of a test file",
		Long: `Score a test file against the source it covers: assertion density,
trivial assertions, whether the target functions are actually called, and
(with --mutate) how many mutants the tests kill.

When only one of --source/--test is given, the other is derived from the
file naming convention (calc.go / calc_test.go, calc.py / test_calc.py).

Examples:
  mutant quality --source calculator.go --test calculator_test.go
  mutant quality --source calc.py
  mutant quality --source main.go --mutate --budget thorough --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if sourceFile == "" && testFile == "" {
				return fmt.Errorf("at least one of --source or --test is required")
			}
			if testFile == "" {
				if testFile = deriveTestPath(sourceFile); testFile == "" {
					return fmt.Errorf("could not find a test file for %s: pass --test", sourceFile)
				}
			}
			if sourceFile == "" {
				if sourceFile = deriveSourcePath(testFile); sourceFile == "" {
					return fmt.Errorf("could not find a source file for %s: pass --source", testFile)
				}
			}

			sourceAbs, err := validateFilePath(sourceFile)
			if err != nil {
				return fmt.Errorf("invalid source file: %w", err)
			}
			testAbs, err := validateFilePath(testFile)
			if err != nil {
				return fmt.Errorf("invalid test file: %w", err)
			}

			testCode, err := os.ReadFile(testAbs)
			if err != nil {
				return err
			}

			language := validator.DetectLanguage(sourceAbs)
			analysis := validator.NewAnalyzer(language, targetFunctions(ctx, sourceAbs)).Analyze(string(testCode))

			var mutResult *mutation.Result
			if withMutants {
				mutResult, err = runMutationForQuality(ctx, sourceAbs, testCommand, budgetStr)
				if err != nil {
					return err
				}
			}

			projectCfg, err := config.LoadProjectConfig(filepath.Dir(sourceAbs))
			if err != nil {
				return err
			}
			weights := validator.Weights{
				Mutation:  projectCfg.Weights.Mutation,
				Assertion: projectCfg.Weights.Assertion,
				Static:    projectCfg.Weights.Static,
			}

			score := validator.NewScorer(weights).Score(analysis, mutResult)

			if jsonOutput {
				data, err := json.MarshalIndent(score, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			renderQuality(testFile, score)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFile, "source", "s", "", "Source file under test")
	cmd.Flags().StringVarP(&testFile, "test", "t", "", "Test file to score")
	cmd.Flags().BoolVar(&withMutants, "mutate", false, "Also run mutation testing for the score")
	cmd.Flags().StringVar(&testCommand, "test-cmd", "", "Test command for the mutation run")
	cmd.Flags().StringVar(&budgetStr, "budget", "", "Mutant budget for the mutation run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full quality score as JSON")

	return cmd
}

// targetFunctions lists the functions defined in the source file so the
// analyzer can verify the tests actually call them. Parse failures return
// nil, which the analyzer treats as "no target check".
func targetFunctions(ctx context.Context, sourcePath string) []string {
	parsed, err := parser.NewParser().ParseFile(ctx, sourcePath)
	if err != nil {
		log.Debug().Err(err).Msg("failed to parse source for target functions")
		return nil
	}
	return parsed.FunctionNames()
}

// runMutationForQuality runs the engine with the same settings resolution
// as "mutant run", minus the preflight and baseline checks.
func runMutationForQuality(ctx context.Context, sourceAbs, testCommand, budgetStr string) (*mutation.Result, error) {
	projectCfg, err := config.LoadProjectConfig(filepath.Dir(sourceAbs))
	if err != nil {
		return nil, err
	}

	if budgetStr == "" {
		budgetStr = projectCfg.Budget
	}
	budget, err := mutation.ParseBudget(budgetStr)
	if err != nil {
		return nil, err
	}

	resolved := projectCfg.ResolveTestCommand(sourceAbs, testCommand)
	if resolved == "" {
		return nil, fmt.Errorf("no test command for %s: pass --test-cmd or set test_command in .mutant.yaml", sourceAbs)
	}

	return mutation.NewEngine().Run(ctx, sourceAbs, resolved, budget)
}

// renderQuality prints the console quality report
func renderQuality(testFile string, score *validator.QualityScore) {
	passed := "FAILED"
	if score.Passed {
		passed = "PASSED"
	}

	fmt.Printf("\nQuality: %s\n", testFile)
	fmt.Printf("  Score: %.2f (%s) - %s\n", score.Score, score.Grade, passed)
	fmt.Printf("  Assertion: %.2f  Mutation: %.2f  Static: %.2f\n",
		score.AssertionScore, score.MutationScore, score.StaticScore)

	b := score.Breakdown
	fmt.Printf("\n  Assertions: %d (%d trivial), %d/%d tests have assertions\n",
		b.AssertionCount, b.TrivialAssertions, b.TestsWithAssertions, b.TotalTests)
	if !b.TargetCalled {
		fmt.Println("  The tests never call the source file's functions")
	}
	if b.MutantsTotal > 0 {
		fmt.Printf("  Mutants: %d/%d killed (%.0f%%)\n", b.MutantsKilled, b.MutantsTotal, b.MutationKillRate*100)
	}

	if len(score.Issues) > 0 {
		fmt.Println("\nIssues:")
		for _, issue := range score.Issues {
			fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
			if issue.Suggestion != "" {
				fmt.Printf("          %s\n", issue.Suggestion)
			}
		}
	}

	if score.Recommendation != "" {
		fmt.Printf("\n%s\n", score.Recommendation)
	}
}
