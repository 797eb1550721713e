package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiURL  string
	rawJSON bool
)

// jobCmd returns the job parent command
func jobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "job",
		Aliases: []string{"jobs"},
		Short:   "Manage async jobs",
		Long:    "Submit, list, and manage async mutation and quality jobs via the API server.",
	}

	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	cmd.PersistentFlags().BoolVar(&rawJSON, "json", false, "Output raw API responses as JSON")

	cmd.AddCommand(jobSubmitCmd())
	cmd.AddCommand(jobListCmd())
	cmd.AddCommand(jobStatusCmd())
	cmd.AddCommand(jobCancelCmd())
	cmd.AddCommand(jobRetryCmd())

	return cmd
}

// jobSubmitCmd enqueues a mutation or quality job
func jobSubmitCmd() *cobra.Command {
	var (
		sourceFile  string
		testFile    string
		testCommand string
		budget      string
		quality     bool
		runMutation bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a mutation or quality job",
		Long: `Submit an async job to the API server. Workers pick it up from the
queue; check progress with "mutant job status".

Examples:
  # Mutation run
  mutant job submit --source calculator.go

  # With options
  mutant job submit --source calc.py --test-cmd "python -m pytest ." --budget thorough

  # Quality assessment of a test file
  mutant job submit --quality --source calc.go --test calc_test.go --mutate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceFile == "" {
				return fmt.Errorf("--source is required")
			}

			var endpoint string
			payload := map[string]interface{}{
				"source_path": sourceFile,
			}
			if testCommand != "" {
				payload["test_command"] = testCommand
			}
			if budget != "" {
				payload["budget"] = budget
			}

			if quality {
				if testFile == "" {
					if testFile = deriveTestPath(sourceFile); testFile == "" {
						return fmt.Errorf("could not find a test file for %s: pass --test", sourceFile)
					}
				}
				endpoint = "/api/v1/quality"
				payload["test_path"] = testFile
				payload["run_mutation"] = runMutation
			} else {
				endpoint = "/api/v1/mutation/runs"
				if testFile != "" {
					payload["test_path"] = testFile
				}
			}

			resp, err := postJSON(apiURL+endpoint, payload)
			if err != nil {
				return err
			}

			if rawJSON {
				fmt.Println(string(resp))
				return nil
			}

			var enqueued struct {
				JobID  string `json:"job_id"`
				Status string `json:"status"`
			}
			if err := json.Unmarshal(resp, &enqueued); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Job submitted.\n")
			fmt.Printf("  ID:     %s\n", enqueued.JobID)
			fmt.Printf("  Status: %s\n", enqueued.Status)
			fmt.Printf("\nCheck status with: mutant job status %s\n", enqueued.JobID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFile, "source", "s", "", "Source file to mutate (required)")
	cmd.Flags().StringVarP(&testFile, "test", "t", "", "Test file (quality jobs)")
	cmd.Flags().StringVar(&testCommand, "test-cmd", "", "Test command to run against each mutant")
	cmd.Flags().StringVar(&budget, "budget", "", "Mutant budget: quick, thorough, all, or a number")
	cmd.Flags().BoolVar(&quality, "quality", false, "Submit a quality job instead of a mutation run")
	cmd.Flags().BoolVar(&runMutation, "mutate", false, "Chain a mutation run into the quality job")

	return cmd
}

// jobListCmd lists jobs
func jobListCmd() *cobra.Command {
	var (
		status  string
		jobType string
		source  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Long: `List jobs with optional filters.

Examples:
  mutant job list
  mutant job list --status running
  mutant job list --source calculator.go --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := "/api/v1/jobs"
			params := []string{}

			if status != "" {
				params = append(params, "status="+status)
			}
			if jobType != "" {
				params = append(params, "type="+jobType)
			}
			if source != "" {
				params = append(params, "source="+source)
			}
			if limit > 0 {
				params = append(params, fmt.Sprintf("limit=%d", limit))
			}

			if len(params) > 0 {
				endpoint += "?" + strings.Join(params, "&")
			}

			resp, err := getJSON(apiURL + endpoint)
			if err != nil {
				return err
			}

			if rawJSON {
				fmt.Println(string(resp))
				return nil
			}

			var jobs []jobResponse
			if err := json.Unmarshal(resp, &jobs); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if len(jobs) == 0 {
				fmt.Println("No jobs found.")
				return nil
			}

			printJobTable(jobs)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, running, completed, failed)")
	cmd.Flags().StringVar(&jobType, "type", "", "Filter by type (mutation, quality)")
	cmd.Flags().StringVar(&source, "source", "", "Filter by source file")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results")

	return cmd
}

// jobStatusCmd gets job status
func jobStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Get job status",
		Long: `Get detailed status of a job including chained child jobs.

Examples:
  mutant job status 550e8400-e29b-41d4-a716-446655440000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			endpoint := fmt.Sprintf("/api/v1/jobs/%s", jobID)

			resp, err := getJSON(apiURL + endpoint)
			if err != nil {
				return err
			}

			if rawJSON {
				fmt.Println(string(resp))
				return nil
			}

			var status jobStatusResponse
			if err := json.Unmarshal(resp, &status); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJobDetail(status.Job)

			if len(status.Children) > 0 {
				fmt.Println("\nChild Jobs:")
				printJobTable(status.Children)
			}

			return nil
		},
	}

	return cmd
}

// jobCancelCmd cancels a job
func jobCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a pending job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			endpoint := fmt.Sprintf("/api/v1/jobs/%s/cancel", jobID)

			resp, err := postJSON(apiURL+endpoint, nil)
			if err != nil {
				return err
			}

			if rawJSON {
				fmt.Println(string(resp))
				return nil
			}

			fmt.Printf("Job %s cancelled.\n", jobID)
			return nil
		},
	}

	return cmd
}

// jobRetryCmd retries a failed job
func jobRetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry <job-id>",
		Short: "Retry a failed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			endpoint := fmt.Sprintf("/api/v1/jobs/%s/retry", jobID)

			resp, err := postJSON(apiURL+endpoint, nil)
			if err != nil {
				return err
			}

			if rawJSON {
				fmt.Println(string(resp))
				return nil
			}

			var job jobResponse
			if err := json.Unmarshal(resp, &job); err != nil {
				fmt.Printf("Job %s queued for retry.\n", jobID)
				return nil
			}

			fmt.Printf("Job %s queued for retry.\n", jobID)
			fmt.Printf("  Status: %s\n", job.Status)
			return nil
		},
	}

	return cmd
}

// Response types
type jobResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Priority     int     `json:"priority"`
	SourcePath   *string `json:"source_path,omitempty"`
	RunID        *string `json:"run_id,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
	RetryCount   int     `json:"retry_count"`
	MaxRetries   int     `json:"max_retries"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	StartedAt    *string `json:"started_at,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	WorkerID     *string `json:"worker_id,omitempty"`
}

type jobStatusResponse struct {
	Job      *jobResponse  `json:"job"`
	Children []jobResponse `json:"children,omitempty"`
}

// HTTP helpers
func getJSON(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(body, &errResp) == nil {
			if msg, ok := errResp["error"]; ok {
				return nil, fmt.Errorf("API error: %s", msg)
			}
		}
		return nil, fmt.Errorf("API error: %s", resp.Status)
	}

	return body, nil
}

func postJSON(url string, data interface{}) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest("POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			if msg, ok := errResp["error"]; ok {
				return nil, fmt.Errorf("API error: %s", msg)
			}
		}
		return nil, fmt.Errorf("API error: %s", resp.Status)
	}

	return respBody, nil
}

// Output helpers
func printJobTable(jobs []jobResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tSOURCE\tCREATED\tWORKER")

	for _, j := range jobs {
		created := formatTime(j.CreatedAt)
		source := "-"
		if j.SourcePath != nil {
			source = *j.SourcePath
		}
		worker := "-"
		if j.WorkerID != nil {
			worker = *j.WorkerID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateJobID(j.ID, 8), j.Type, j.Status, source, created, truncateJobID(worker, 12))
	}
	w.Flush()
}

func printJobDetail(j *jobResponse) {
	fmt.Printf("Job: %s\n", j.ID)
	fmt.Printf("  Type:       %s\n", j.Type)
	fmt.Printf("  Status:     %s\n", j.Status)
	fmt.Printf("  Priority:   %d\n", j.Priority)
	fmt.Printf("  Retries:    %d/%d\n", j.RetryCount, j.MaxRetries)
	fmt.Printf("  Created:    %s\n", j.CreatedAt)

	if j.SourcePath != nil {
		fmt.Printf("  Source:     %s\n", *j.SourcePath)
	}
	if j.RunID != nil {
		fmt.Printf("  Run:        %s\n", *j.RunID)
	}
	if j.StartedAt != nil {
		fmt.Printf("  Started:    %s\n", *j.StartedAt)
	}
	if j.CompletedAt != nil {
		fmt.Printf("  Completed:  %s\n", *j.CompletedAt)
	}
	if j.WorkerID != nil {
		fmt.Printf("  Worker:     %s\n", *j.WorkerID)
	}
	if j.ErrorMessage != nil {
		fmt.Printf("  Error:      %s\n", *j.ErrorMessage)
	}
}

func formatTime(t string) string {
	parsed, err := time.Parse(time.RFC3339, t)
	if err != nil {
		return t
	}
	return parsed.Format("Jan 02 15:04")
}

func truncateJobID(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
