package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("MUTANT_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:   "mutant",
		Short: "Mutant - mutation testing for your test suite",
		Long: `Mutant evaluates how good your tests really are: it makes small
changes (mutants) to your source code and checks whether the tests notice.

A high kill rate means your tests catch real bugs; survivors point at the
exact lines your tests ignore.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(qualityCmd())
	rootCmd.AddCommand(jobCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// validateFilePath checks a path exists and returns its absolute form
func validateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, want a file", path)
	}

	return abs, nil
}
