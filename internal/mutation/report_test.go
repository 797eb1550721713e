package mutation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResult() *Result {
	return Aggregate("calc.go", []Run{
		{Mutation: Mutation{Line: 3, Column: 5, Original: " >= ", Replacement: " > ", Description: "boundary comparison: >="}, Killed: true},
		{Mutation: Mutation{Line: 7, Column: 9, Original: "true", Replacement: "false", Description: "boolean literal: true"}},
	})
}

func TestGenerateJSONReport(t *testing.T) {
	dir := t.TempDir()

	path, err := NewReporter(dir).GenerateReport(sampleResult(), FormatJSON)
	if err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "mutation-report-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("report filename = %q, want mutation-report-<timestamp>.json", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON report is not a Result: %v", err)
	}
	if decoded.SourcePath != "calc.go" || decoded.Total != 2 || decoded.Killed != 1 {
		t.Errorf("round-tripped result = %+v", decoded)
	}
	if len(decoded.Details) != 2 {
		t.Errorf("round-tripped details count = %d, want 2", len(decoded.Details))
	}
}

func TestGenerateTextReport(t *testing.T) {
	dir := t.TempDir()

	path, err := NewReporter(dir).GenerateReport(sampleResult(), FormatText)
	if err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}
	if !strings.HasSuffix(path, ".txt") {
		t.Errorf("text report path = %q, want .txt", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"MUTATION RUN REPORT",
		"calc.go",
		"Kill Rate:      50%",
		"boundary comparison: >=",
		"SUGGESTIONS",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q", want)
		}
	}
}

func TestGenerateHTMLReport(t *testing.T) {
	dir := t.TempDir()

	path, err := NewReporter(dir).GenerateReport(sampleResult(), FormatHTML)
	if err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("html report path = %q, want .html", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"calc.go",
		"50%",
		"Line 7",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html report missing %q", want)
		}
	}
}

func TestGenerateReportUnsupportedFormat(t *testing.T) {
	_, err := NewReporter(t.TempDir()).GenerateReport(sampleResult(), ReportFormat("pdf"))
	if err == nil {
		t.Error("GenerateReport() with unsupported format should return error")
	}
}

func TestReporterCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	path, err := NewReporter(dir).GenerateReport(sampleResult(), FormatJSON)
	if err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report written to %q, want directory %q", filepath.Dir(path), dir)
	}
}

func TestSurvivorLinesAscending(t *testing.T) {
	result := Aggregate("calc.go", []Run{
		{Mutation: Mutation{Line: 9, Description: "boolean literal: true"}},
		{Mutation: Mutation{Line: 2, Description: "boundary comparison: >="}},
		{Mutation: Mutation{Line: 5, Description: "return value"}},
	})

	lines := survivorLines(Summarize(result))

	want := []int{2, 5, 9}
	if len(lines) != len(want) {
		t.Fatalf("survivorLines() returned %d entries, want %d", len(lines), len(want))
	}
	for i, line := range lines {
		if line.Line != want[i] {
			t.Errorf("survivorLines()[%d].Line = %d, want %d", i, line.Line, want[i])
		}
	}
}
