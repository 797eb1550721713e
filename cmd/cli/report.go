package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/mutation"
)

func reportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <result.json>",
		Short: "Re-render a saved mutation result",
		Long: `Re-render a JSON mutation report saved by "mutant run --save".

By default the result is printed to the console. With --format a new
report file is generated in the configured report directory.

Examples:
  mutant report mutant-reports/mutation-report-20250310-120000.json
  mutant report result.json --format html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := validateFilePath(args[0])
			if err != nil {
				return fmt.Errorf("invalid report file: %w", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			var result mutation.Result
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("%s is not a mutation result: %w", args[0], err)
			}

			if format == "" {
				renderResult(context.Background(), &result)
				return nil
			}

			envCfg, err := config.Load()
			if err != nil {
				return err
			}

			out, err := mutation.NewReporter(envCfg.ReportDir).GenerateReport(&result, mutation.ReportFormat(format))
			if err != nil {
				return err
			}
			fmt.Printf("Report saved: %s\n", out)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Generate a report file instead: html, json, or text")

	return cmd
}
