package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/mutation"
	"github.com/mutant-hq/mutant/internal/parser"
	"github.com/mutant-hq/mutant/internal/vcs"
)

func runCmd() *cobra.Command {
	var (
		sourceFile   string
		testCommand  string
		budgetStr    string
		jsonOutput   bool
		force        bool
		skipBaseline bool
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run mutation testing on a source file",
		Long: `Run mutation testing on a source file: each mutant is applied to the
file in place, the test command is executed, and the original content is
restored before the next mutant.

The test command and budget come from flags, falling back to .mutant.yaml
and then to built-in defaults for the file's language.

Examples:
  mutant run --source calculator.go
  mutant run --source calc.py --test-cmd "python -m pytest ." --budget thorough
  mutant run --source main.go --budget 5 --json
  mutant run --source main.go --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sourceAbs, err := validateFilePath(sourceFile)
			if err != nil {
				return fmt.Errorf("invalid source file: %w", err)
			}

			projectCfg, err := config.LoadProjectConfig(filepath.Dir(sourceAbs))
			if err != nil {
				return err
			}

			if budgetStr == "" {
				budgetStr = projectCfg.Budget
			}
			budget, err := mutation.ParseBudget(budgetStr)
			if err != nil {
				return err
			}

			resolved := projectCfg.ResolveTestCommand(sourceAbs, testCommand)
			if resolved == "" {
				return fmt.Errorf("no test command for %s: pass --test-cmd or set test_command in .mutant.yaml", sourceFile)
			}

			// The run mutates the real file; refuse to start on top of
			// uncommitted edits that a crash could destroy.
			if !force {
				if err := preflightClean(sourceAbs); err != nil {
					return err
				}
			}

			// A baseline failure means every mutant would look killed
			if !skipBaseline {
				if err := runBaseline(ctx, sourceAbs, resolved); err != nil {
					return err
				}
			}

			result, err := mutation.NewEngine().Run(ctx, sourceAbs, resolved, budget)
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := json.Marshal(result.Score())
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				renderResult(ctx, result)
			}

			if save {
				envCfg, err := config.Load()
				if err != nil {
					return err
				}
				path, err := mutation.NewReporter(envCfg.ReportDir).GenerateReport(result, mutation.FormatJSON)
				if err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
				fmt.Printf("\nReport saved: %s\n", path)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFile, "source", "s", "", "Source file to mutate (required)")
	cmd.Flags().StringVar(&testCommand, "test-cmd", "", "Test command to run against each mutant")
	cmd.Flags().StringVar(&budgetStr, "budget", "", "Mutant budget: quick, thorough, all, or a number")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the compact score as JSON")
	cmd.Flags().BoolVar(&force, "force", false, "Run even if the source file has uncommitted changes")
	cmd.Flags().BoolVar(&skipBaseline, "skip-baseline", false, "Skip the pristine-source test run")
	cmd.Flags().BoolVar(&save, "save", false, "Save a timestamped JSON report")
	cmd.MarkFlagRequired("source")

	return cmd
}

// preflightClean fails when the source file carries uncommitted changes.
// Files outside any repository pass; there is nothing to lose there that
// git could have protected.
func preflightClean(sourcePath string) error {
	repo, err := vcs.Open(sourcePath)
	if err != nil {
		log.Debug().Err(err).Msg("source is not under version control, skipping preflight")
		return nil
	}

	dirty, err := repo.Check(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to check worktree status: %w", err)
	}
	if dirty {
		return fmt.Errorf("%s has uncommitted changes; commit them first or pass --force", sourcePath)
	}

	return nil
}

// runBaseline executes the test command once against the pristine source.
// Mutation results are meaningless when the suite already fails.
func runBaseline(ctx context.Context, sourcePath, testCommand string) error {
	fmt.Println("Running baseline tests...")

	argv := strings.Fields(testCommand)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = filepath.Dir(sourcePath)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("tests fail before any mutation:\n%s\nfix them first or pass --skip-baseline", strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("failed to run test command: %w", err)
	}

	return nil
}

// renderResult prints the console report: totals, per-line survivor
// breakdown with enclosing function names, suggestions, and the quality
// label.
func renderResult(ctx context.Context, result *mutation.Result) {
	fmt.Printf("\nMutation run: %s\n", result.SourcePath)
	fmt.Printf("  Total:    %d\n", result.Total)
	fmt.Printf("  Killed:   %d\n", result.Killed)
	fmt.Printf("  Survived: %d\n", result.Survived)
	fmt.Printf("  Score:    %d%% (%s)\n", result.KillRatePercent(), result.Quality())

	if !result.HasSurvivors() {
		if result.HasMutants() {
			fmt.Println("\nEvery executed mutant was killed.")
		}
		return
	}

	summary := mutation.Summarize(result)
	functions := enclosingFunctions(ctx, result.SourcePath)

	fmt.Printf("\nSurviving mutants (%d lines affected):\n", summary.LinesWithSurvived)

	lines := make([]int, 0, len(summary.SurvivedByLine))
	for line := range summary.SurvivedByLine {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	for _, line := range lines {
		location := fmt.Sprintf("line %d", line)
		if fn := functions(line); fn != "" {
			location = fmt.Sprintf("line %d (%s)", line, fn)
		}
		for _, run := range summary.SurvivedByLine[line] {
			fmt.Printf("  %s: %q -> %q  [%s]\n",
				location, run.Mutation.Original, run.Mutation.Replacement, run.Mutation.Description)
		}
	}

	if len(summary.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range summary.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}

// enclosingFunctions returns a lookup from source line to the name of the
// function containing it. Parse failures degrade to plain line numbers.
func enclosingFunctions(ctx context.Context, sourcePath string) func(int) string {
	parsed, err := parser.NewParser().ParseFile(ctx, sourcePath)
	if err != nil {
		log.Debug().Err(err).Msg("failed to parse source for function names")
		return func(int) string { return "" }
	}

	return func(line int) string {
		if fn := parsed.FunctionAt(line); fn != nil {
			return fn.Name
		}
		return ""
	}
}
