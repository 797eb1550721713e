package mutation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Engine wires the generator, sampler, and runner into the full analysis
// flow: generate all candidates, narrow to the budget, execute sequentially,
// aggregate.
type Engine struct {
	generator *Generator
	sampler   *Sampler
	runner    *Runner
}

// NewEngine creates an engine with the default operator catalog and ranking.
func NewEngine() *Engine {
	return &Engine{
		generator: NewGenerator(),
		sampler:   NewSampler(nil),
		runner:    NewRunner(),
	}
}

// NewEngineWithRanker creates an engine with a custom sampling strategy.
func NewEngineWithRanker(r Ranker) *Engine {
	return &Engine{
		generator: NewGenerator(),
		sampler:   NewSampler(r),
		runner:    NewRunner(),
	}
}

// Run mutates sourcePath in place, one mutant at a time, and reports how many
// mutants the test command caught. The original content is restored after
// every mutant. The only hard failures are an unreadable source file and an
// empty test command; every per-mutant failure is captured inside the result.
func (e *Engine) Run(ctx context.Context, sourcePath, testCommand string, budget Budget) (*Result, error) {
	if strings.TrimSpace(testCommand) == "" {
		return nil, fmt.Errorf("test command is empty")
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	candidates := e.generator.Generate(string(content))
	selected := e.sampler.Select(candidates, budget)

	log.Info().
		Str("file", sourcePath).
		Int("candidates", len(candidates)).
		Int("selected", len(selected)).
		Str("budget", budget.String()).
		Msg("starting mutation run")

	runs := e.runner.Run(ctx, sourcePath, content, selected, testCommand)
	result := Aggregate(sourcePath, runs)

	log.Info().
		Str("file", sourcePath).
		Int("total", result.Total).
		Int("killed", result.Killed).
		Int("survived", result.Survived).
		Int("kill_rate", result.KillRatePercent()).
		Msg("mutation run complete")

	return result, nil
}
