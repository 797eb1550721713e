package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/db"
	"github.com/mutant-hq/mutant/internal/jobs"
	"github.com/mutant-hq/mutant/internal/mutation"
	"github.com/mutant-hq/mutant/internal/parser"
	"github.com/mutant-hq/mutant/internal/validator"
	"github.com/mutant-hq/mutant/internal/vcs"
)

// MutationWorker runs the mutation engine against a source file and
// persists the outcome to the run-history store.
type MutationWorker struct {
	*BaseWorker
	store  *db.Store
	engine *mutation.Engine
}

func NewMutationWorker(base *BaseWorker, store *db.Store) *MutationWorker {
	w := &MutationWorker{
		BaseWorker: base,
		store:      store,
		engine:     mutation.NewEngine(),
	}
	base.handler = w.handleJob
	return w
}

func (w *MutationWorker) Name() string { return "mutation" }

func (w *MutationWorker) handleJob(ctx context.Context, job *jobs.Job) error {
	var payload jobs.MutationPayload
	if err := job.GetPayload(&payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	log.Info().
		Str("source", payload.SourcePath).
		Str("budget", payload.Budget).
		Msg("running mutation testing")

	if _, err := os.Stat(payload.SourcePath); os.IsNotExist(err) {
		return fmt.Errorf("source file not found: %s", payload.SourcePath)
	}

	budget, testCommand, err := resolveRunSettings(payload.SourcePath, payload.TestCommand, payload.Budget)
	if err != nil {
		return err
	}

	result, err := w.engine.Run(ctx, payload.SourcePath, testCommand, budget)
	if err != nil {
		log.Warn().Err(err).Msg("mutation run failed")
		// Complete job with an empty result rather than failing
		return w.Repository().Complete(ctx, job.ID, jobs.MutationResult{})
	}

	jobResult := jobs.MutationResult{
		MutantsTotal:    result.Total,
		MutantsKilled:   result.Killed,
		MutantsSurvived: result.Survived,
		ScorePercent:    result.KillRatePercent(),
	}

	if run := persistRun(ctx, w.store, payload.SourcePath, testCommand, budget, result); run != nil {
		jobResult.RunID = run.ID
		if run.CommitSHA != nil {
			jobResult.CommitSHA = *run.CommitSHA
		}
		if err := w.Repository().AttachRun(ctx, job.ID, run.ID); err != nil {
			log.Warn().Err(err).Msg("failed to attach run to job")
		}
	}

	log.Info().
		Int("total", jobResult.MutantsTotal).
		Int("killed", jobResult.MutantsKilled).
		Int("survived", jobResult.MutantsSurvived).
		Int("score_percent", jobResult.ScorePercent).
		Str("quality", result.Quality()).
		Msg("mutation testing completed")

	if err := w.Repository().Complete(ctx, job.ID, jobResult); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// QualityWorker scores a test file: static assertion analysis plus an
// optional mutation run folded into the combined quality score.
type QualityWorker struct {
	*BaseWorker
	store  *db.Store
	engine *mutation.Engine
	parser *parser.Parser
}

func NewQualityWorker(base *BaseWorker, store *db.Store) *QualityWorker {
	w := &QualityWorker{
		BaseWorker: base,
		store:      store,
		engine:     mutation.NewEngine(),
		parser:     parser.NewParser(),
	}
	base.handler = w.handleJob
	return w
}

func (w *QualityWorker) Name() string { return "quality" }

func (w *QualityWorker) handleJob(ctx context.Context, job *jobs.Job) error {
	var payload jobs.QualityPayload
	if err := job.GetPayload(&payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	log.Info().
		Str("test", payload.TestPath).
		Str("source", payload.SourcePath).
		Bool("run_mutation", payload.RunMutation).
		Msg("scoring test quality")

	testCode, err := os.ReadFile(payload.TestPath)
	if err != nil {
		return fmt.Errorf("failed to read test file: %w", err)
	}

	language := validator.DetectLanguage(payload.TestPath)
	analyzer := validator.NewAnalyzer(language, w.targetFunctions(ctx, payload.SourcePath))
	analysis := analyzer.Analyze(string(testCode))

	var mutResult *mutation.Result
	if payload.RunMutation {
		budget, testCommand, err := resolveRunSettings(payload.SourcePath, payload.TestCommand, payload.Budget)
		if err != nil {
			return err
		}

		mutResult, err = w.engine.Run(ctx, payload.SourcePath, testCommand, budget)
		if err != nil {
			log.Warn().Err(err).Msg("mutation run failed, scoring without mutation component")
			mutResult = nil
		} else if run := persistRun(ctx, w.store, payload.SourcePath, testCommand, budget, mutResult); run != nil {
			if err := w.Repository().AttachRun(ctx, job.ID, run.ID); err != nil {
				log.Warn().Err(err).Msg("failed to attach run to job")
			}
		}
	}

	score := validator.NewScorer(scoringWeights(payload.SourcePath)).Score(analysis, mutResult)

	result := jobs.QualityResult{
		Score:          score.Score,
		Grade:          score.Grade,
		Passed:         score.Passed,
		AssertionCount: analysis.AssertionCount,
		IssueCount:     len(score.Issues),
		Recommendation: score.Recommendation,
	}

	log.Info().
		Float64("score", result.Score).
		Str("grade", result.Grade).
		Bool("passed", result.Passed).
		Msg("quality scoring completed")

	if err := w.Repository().Complete(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// targetFunctions parses the source file so the analyzer can check the
// tests actually call into it. Parse failures degrade to no target check.
func (w *QualityWorker) targetFunctions(ctx context.Context, sourcePath string) []string {
	parsed, err := w.parser.ParseFile(ctx, sourcePath)
	if err != nil {
		log.Warn().Err(err).Str("source", sourcePath).Msg("failed to parse source file")
		return nil
	}
	return parsed.FunctionNames()
}

// resolveRunSettings fills in budget and test command from the project
// config when the payload leaves them empty.
func resolveRunSettings(sourcePath, testCommand, budgetStr string) (mutation.Budget, string, error) {
	projectCfg, err := config.LoadProjectConfig(filepath.Dir(sourcePath))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load project config, using defaults")
		projectCfg = config.DefaultProjectConfig()
	}

	if budgetStr == "" {
		budgetStr = projectCfg.Budget
	}
	budget, err := mutation.ParseBudget(budgetStr)
	if err != nil {
		return 0, "", err
	}

	resolved := projectCfg.ResolveTestCommand(sourcePath, testCommand)
	if resolved == "" {
		return 0, "", fmt.Errorf("no test command for %s", sourcePath)
	}

	return budget, resolved, nil
}

// scoringWeights reads quality weights from the project config, falling
// back to the scorer defaults for anything invalid.
func scoringWeights(sourcePath string) validator.Weights {
	projectCfg, err := config.LoadProjectConfig(filepath.Dir(sourcePath))
	if err != nil {
		return validator.DefaultWeights()
	}
	return validator.Weights{
		Mutation:  projectCfg.Weights.Mutation,
		Assertion: projectCfg.Weights.Assertion,
		Static:    projectCfg.Weights.Static,
	}
}

// persistRun writes a completed mutation run to the history store. Returns
// nil when no store is configured or the write fails; persistence problems
// never fail the run itself.
func persistRun(ctx context.Context, store *db.Store, sourcePath, testCommand string, budget mutation.Budget, result *mutation.Result) *db.MutationRun {
	if store == nil {
		return nil
	}

	details, err := json.Marshal(mutation.Summarize(result))
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal run summary")
		details = nil
	}

	run := &db.MutationRun{
		SourcePath:   sourcePath,
		TestCommand:  testCommand,
		Budget:       budget.String(),
		Total:        result.Total,
		Killed:       result.Killed,
		Survived:     result.Survived,
		ScorePercent: result.KillRatePercent(),
		CommitSHA:    headSHA(sourcePath),
		Details:      details,
	}

	if err := store.CreateRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to persist mutation run")
		return nil
	}

	return run
}

// headSHA returns the current commit of the repository containing path,
// or nil when the file is not under version control.
func headSHA(path string) *string {
	repo, err := vcs.Open(path)
	if err != nil {
		return nil
	}
	sha, err := repo.Head()
	if err != nil {
		return nil
	}
	return &sha
}
