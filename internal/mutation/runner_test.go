package mutation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.go")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerRestoresOriginalContent(t *testing.T) {
	content := "flag := true\n"
	path := writeSource(t, content)

	m := Mutation{
		Start: 8, End: 12,
		Line: 1, Column: 9,
		Original: "true", Replacement: "false",
		Description: "boolean literal: true",
	}

	runs := NewRunner().Run(context.Background(), path, []byte(content), []Mutation{m}, "true")
	if len(runs) != 1 {
		t.Fatalf("Run() returned %d runs, want 1", len(runs))
	}

	restored, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != content {
		t.Errorf("source after run = %q, want original %q", restored, content)
	}
}

func TestRunnerKilledOnNonZeroExit(t *testing.T) {
	content := "flag := true\n"
	path := writeSource(t, content)

	m := Mutation{Start: 8, End: 12, Line: 1, Original: "true", Replacement: "false", Description: "boolean literal: true"}

	runs := NewRunner().Run(context.Background(), path, []byte(content), []Mutation{m}, "false")
	if len(runs) != 1 {
		t.Fatalf("Run() returned %d runs, want 1", len(runs))
	}
	if !runs[0].Killed {
		t.Error("mutant not killed although the test command exited non-zero")
	}
}

func TestRunnerSurvivedOnZeroExit(t *testing.T) {
	content := "flag := true\n"
	path := writeSource(t, content)

	m := Mutation{Start: 8, End: 12, Line: 1, Original: "true", Replacement: "false", Description: "boolean literal: true"}

	runs := NewRunner().Run(context.Background(), path, []byte(content), []Mutation{m}, "true")
	if len(runs) != 1 {
		t.Fatalf("Run() returned %d runs, want 1", len(runs))
	}
	if runs[0].Killed {
		t.Error("mutant killed although the test command exited zero")
	}
}

func TestRunnerSpawnFailureIsNotAKill(t *testing.T) {
	content := "flag := true\n"
	path := writeSource(t, content)

	m := Mutation{Start: 8, End: 12, Line: 1, Original: "true", Replacement: "false", Description: "boolean literal: true"}

	runs := NewRunner().Run(context.Background(), path, []byte(content), []Mutation{m}, "no-such-test-binary-1f3a")
	if len(runs) != 1 {
		t.Fatalf("Run() returned %d runs, want 1", len(runs))
	}
	if runs[0].Killed {
		t.Error("spawn failure reported as a kill")
	}
	if runs[0].Stderr == "" {
		t.Error("spawn failure left Stderr empty")
	}

	restored, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != content {
		t.Errorf("source after spawn failure = %q, want original %q", restored, content)
	}
}

func TestRunnerSpanMismatchSkipsExecution(t *testing.T) {
	content := "flag := true\n"
	path := writeSource(t, content)

	tests := []struct {
		name string
		m    Mutation
	}{
		{"text moved", Mutation{Start: 0, End: 4, Original: "true", Replacement: "false"}},
		{"end past content", Mutation{Start: 8, End: 999, Original: "true", Replacement: "false"}},
		{"negative start", Mutation{Start: -1, End: 4, Original: "true", Replacement: "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := NewRunner().Run(context.Background(), path, []byte(content), []Mutation{tt.m}, "true")
			if len(runs) != 1 {
				t.Fatalf("Run() returned %d runs, want 1", len(runs))
			}
			if runs[0].Killed {
				t.Error("stale mutant reported as killed")
			}
			if !strings.Contains(runs[0].Stderr, "source changed") {
				t.Errorf("Stderr = %q, want span mismatch message", runs[0].Stderr)
			}
		})
	}
}

func TestRunnerDropsNoOpMutant(t *testing.T) {
	// The file carries the mutated text already; applying the edit produces
	// exactly originalContent, which the runner must drop unexecuted.
	path := writeSource(t, "zz")

	m := Mutation{Start: 0, End: 2, Original: "zz", Replacement: "z"}

	runs := NewRunner().Run(context.Background(), path, []byte("z"), []Mutation{m}, "true")
	if len(runs) != 0 {
		t.Errorf("Run() returned %d runs for a no-op mutant, want 0", len(runs))
	}
}

func TestRunnerPreservesSelectionOrder(t *testing.T) {
	content := "a := true\nb := false\n"
	path := writeSource(t, content)

	selected := []Mutation{
		{Start: 5, End: 9, Line: 1, Original: "true", Replacement: "false", Description: "boolean literal: true"},
		{Start: 15, End: 20, Line: 2, Original: "false", Replacement: "true", Description: "boolean literal: false"},
	}

	runs := NewRunner().Run(context.Background(), path, []byte(content), selected, "true")
	if len(runs) != 2 {
		t.Fatalf("Run() returned %d runs, want 2", len(runs))
	}
	if runs[0].Mutation.Line != 1 || runs[1].Mutation.Line != 2 {
		t.Errorf("runs out of order: lines %d, %d", runs[0].Mutation.Line, runs[1].Mutation.Line)
	}
}

func TestApplyMutation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		m       Mutation
		want    string
	}{
		{"same length", "x >= y", Mutation{Start: 2, End: 4, Original: ">=", Replacement: "<="}, "x <= y"},
		{"shorter", "x >= y", Mutation{Start: 2, End: 4, Original: ">=", Replacement: ">"}, "x > y"},
		{"longer", "x > y", Mutation{Start: 2, End: 3, Original: ">", Replacement: ">="}, "x >= y"},
		{"at start", "true || b", Mutation{Start: 0, End: 4, Original: "true", Replacement: "false"}, "false || b"},
		{"at end", "a || true", Mutation{Start: 5, End: 9, Original: "true", Replacement: "false"}, "a || false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyMutation([]byte(tt.content), tt.m)
			if string(got) != tt.want {
				t.Errorf("applyMutation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileGuardRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guarded.go")
	original := []byte("original content\n")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatal(err)
	}

	guard := newFileGuard(path, original)
	if err := os.WriteFile(path, []byte("mutated content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	guard.restore()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(original) {
		t.Errorf("after restore content = %q, want %q", got, original)
	}
}
