package mutation

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Runner owns the mutate, execute, restore loop. It applies one mutant at a
// time to the real source file, runs the test command, and puts the original
// content back before touching the next mutant. The file must not be edited
// by anything else while a run is in progress.
type Runner struct{}

// NewRunner creates a runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes each selected mutation strictly in order and returns one Run
// per executed mutant. Mutants whose edit leaves the content identical to
// originalContent are dropped without being written or executed. Per-mutant
// write and spawn failures are captured in the Run, never propagated; the
// batch always continues.
func (r *Runner) Run(ctx context.Context, sourcePath string, originalContent []byte, selected []Mutation, testCommand string) []Run {
	argv := strings.Fields(testCommand)
	workDir := filepath.Dir(sourcePath)

	runs := make([]Run, 0, len(selected))
	for _, m := range selected {
		run, executed := r.runOne(ctx, sourcePath, workDir, originalContent, m, argv)
		if !executed {
			continue
		}
		runs = append(runs, run)
	}

	return runs
}

// runOne processes a single mutant. The second return value is false only
// when the mutant turned out to be a no-op edit.
func (r *Runner) runOne(ctx context.Context, sourcePath, workDir string, originalContent []byte, m Mutation, argv []string) (Run, bool) {
	current, err := os.ReadFile(sourcePath)
	if err != nil {
		return Run{Mutation: m, Stderr: fmt.Sprintf("failed to read source: %v", err)}, true
	}

	// The span was computed against the text at generation time; refuse to
	// apply it if the file no longer carries that text there.
	if !spanMatches(current, m) {
		return Run{Mutation: m, Stderr: fmt.Sprintf("source changed: %q is no longer at bytes %d..%d", m.Original, m.Start, m.End)}, true
	}

	mutated := applyMutation(current, m)
	if bytes.Equal(mutated, originalContent) {
		log.Debug().
			Int("line", m.Line).
			Str("category", m.Description).
			Msg("dropping no-op mutant")
		return Run{}, false
	}

	guard := newFileGuard(sourcePath, originalContent)
	defer guard.restore()

	if err := os.WriteFile(sourcePath, mutated, 0644); err != nil {
		return Run{Mutation: m, Stderr: fmt.Sprintf("failed to write mutant: %v", err)}, true
	}

	if len(argv) == 0 {
		return Run{Mutation: m, Stderr: "empty test command"}, true
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	run := Run{Mutation: m, Stdout: stdout.String(), Stderr: stderr.String()}
	if runErr != nil {
		if _, ok := runErr.(*exec.ExitError); ok {
			// Non-zero exit: the tests caught the mutant.
			run.Killed = true
		} else {
			// Could not spawn at all. A broken test command must not be
			// reported as a kill.
			run.Stderr = runErr.Error()
		}
	}

	log.Debug().
		Int("line", m.Line).
		Str("category", m.Description).
		Bool("killed", run.Killed).
		Msg("executed mutant")

	return run, true
}

// spanMatches reports whether content still carries m.Original at m's span.
func spanMatches(content []byte, m Mutation) bool {
	if m.Start < 0 || m.End > len(content) || m.Start > m.End {
		return false
	}
	return string(content[m.Start:m.End]) == m.Original
}

// applyMutation substitutes m.Replacement for the span in content.
func applyMutation(content []byte, m Mutation) []byte {
	mutated := make([]byte, 0, len(content)-(m.End-m.Start)+len(m.Replacement))
	mutated = append(mutated, content[:m.Start]...)
	mutated = append(mutated, m.Replacement...)
	mutated = append(mutated, content[m.End:]...)
	return mutated
}
