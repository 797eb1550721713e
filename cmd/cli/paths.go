package main

import (
	"os"
	"path/filepath"
	"strings"
)

// deriveTestPath finds the conventional test file next to a source file.
// Returns "" when no candidate exists on disk.
func deriveTestPath(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	var testName string
	switch ext {
	case ".go":
		testName = name + "_test.go"
	case ".py":
		testName = "test_" + name + ".py"
	case ".ts":
		testName = name + ".test.ts"
	case ".js":
		testName = name + ".test.js"
	default:
		return ""
	}

	testPath := filepath.Join(dir, testName)
	if _, err := os.Stat(testPath); err == nil {
		return testPath
	}

	return ""
}

// deriveSourcePath is the inverse of deriveTestPath: given a test file,
// find the source file it conventionally covers.
func deriveSourcePath(testPath string) string {
	dir := filepath.Dir(testPath)
	base := filepath.Base(testPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	var sourceName string
	switch {
	case ext == ".go" && strings.HasSuffix(name, "_test"):
		sourceName = strings.TrimSuffix(name, "_test") + ".go"
	case ext == ".py" && strings.HasPrefix(name, "test_"):
		sourceName = strings.TrimPrefix(name, "test_") + ".py"
	case ext == ".ts" && strings.HasSuffix(name, ".test"):
		sourceName = strings.TrimSuffix(name, ".test") + ".ts"
	case ext == ".js" && strings.HasSuffix(name, ".test"):
		sourceName = strings.TrimSuffix(name, ".test") + ".js"
	default:
		return ""
	}

	sourcePath := filepath.Join(dir, sourceName)
	if _, err := os.Stat(sourcePath); err == nil {
		return sourcePath
	}

	return ""
}
