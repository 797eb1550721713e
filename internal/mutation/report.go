package mutation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ReportFormat represents the output format for mutation reports
type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatJSON ReportFormat = "json"
	FormatText ReportFormat = "text"
)

// Reporter writes mutation run reports to files
type Reporter struct {
	outputDir string
}

// NewReporter creates a new mutation report writer
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// GenerateReport creates a report in the specified format and returns its path
func (r *Reporter) GenerateReport(result *Result, format ReportFormat) (string, error) {
	switch format {
	case FormatHTML:
		return r.generateHTMLReport(result)
	case FormatJSON:
		return r.generateJSONReport(result)
	case FormatText:
		return r.generateTextReport(result)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// generateHTMLReport creates an HTML mutation report
func (r *Reporter) generateHTMLReport(result *Result) (string, error) {
	summary := Summarize(result)

	data := htmlReportData{
		Title:         "Mutation Run Report",
		GeneratedAt:   time.Now().Format("2006-01-02 15:04:05"),
		SourcePath:    result.SourcePath,
		Total:         result.Total,
		Killed:        result.Killed,
		Survived:      result.Survived,
		KillRate:      fmt.Sprintf("%d%%", result.KillRatePercent()),
		Quality:       result.Quality(),
		QualityClass:  qualityClass(result.Quality()),
		SurvivorLines: survivorLines(summary),
		Suggestions:   summary.Suggestions,
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return r.write("html", buf.Bytes())
}

// generateJSONReport creates a JSON mutation report
func (r *Reporter) generateJSONReport(result *Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return r.write("json", data)
}

// generateTextReport creates a plain text mutation report
func (r *Reporter) generateTextReport(result *Result) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("================================================================================\n")
	buf.WriteString("                           MUTATION RUN REPORT\n")
	buf.WriteString("================================================================================\n\n")

	buf.WriteString(fmt.Sprintf("Source File: %s\n", result.SourcePath))
	buf.WriteString(fmt.Sprintf("Generated:   %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	buf.WriteString("SUMMARY\n")
	buf.WriteString("-------\n")
	buf.WriteString(fmt.Sprintf("  Total Mutants:  %d\n", result.Total))
	buf.WriteString(fmt.Sprintf("  Killed:         %d\n", result.Killed))
	buf.WriteString(fmt.Sprintf("  Survived:       %d\n", result.Survived))
	buf.WriteString(fmt.Sprintf("  Kill Rate:      %d%%\n", result.KillRatePercent()))
	buf.WriteString(fmt.Sprintf("  Quality:        %s\n\n", result.Quality()))

	if len(result.Details) > 0 {
		buf.WriteString("MUTANT DETAILS\n")
		buf.WriteString("--------------\n\n")

		for i, run := range result.Details {
			icon := "✗"
			status := "survived"
			if run.Killed {
				icon = "✓"
				status = "killed"
			}

			buf.WriteString(fmt.Sprintf("[%s] Mutant #%d (line %d, col %d)\n", icon, i+1, run.Mutation.Line, run.Mutation.Column))
			buf.WriteString(fmt.Sprintf("    Category: %s\n", run.Mutation.Description))
			buf.WriteString(fmt.Sprintf("    Change:   %q -> %q\n", run.Mutation.Original, run.Mutation.Replacement))
			buf.WriteString(fmt.Sprintf("    Status:   %s\n\n", status))
		}
	}

	if result.HasSurvivors() {
		summary := Summarize(result)

		buf.WriteString("SUGGESTIONS\n")
		buf.WriteString("-----------\n")
		for _, s := range summary.Suggestions {
			buf.WriteString(fmt.Sprintf("  - %s\n", s))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("================================================================================\n")

	return r.write("txt", buf.Bytes())
}

// write saves report bytes under a timestamped name and returns the path
func (r *Reporter) write(ext string, data []byte) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("mutation-report-%s.%s", time.Now().Format("20060102-150405"), ext)
	outputPath := filepath.Join(r.outputDir, filename)

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return outputPath, nil
}

// survivorLine is one line's worth of surviving mutants for the HTML view
type survivorLine struct {
	Line    int
	Mutants []Run
}

// survivorLines flattens the by-line map into ascending line order for
// template iteration
func survivorLines(summary *Summary) []survivorLine {
	lines := make([]int, 0, len(summary.SurvivedByLine))
	for line := range summary.SurvivedByLine {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	out := make([]survivorLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, survivorLine{Line: line, Mutants: summary.SurvivedByLine[line]})
	}
	return out
}

// htmlReportData holds data for the HTML template
type htmlReportData struct {
	Title         string
	GeneratedAt   string
	SourcePath    string
	Total         int
	Killed        int
	Survived      int
	KillRate      string
	Quality       string
	QualityClass  string
	SurvivorLines []survivorLine
	Suggestions   []string
}

// qualityClass returns the CSS class for quality level
func qualityClass(quality string) string {
	switch quality {
	case "good":
		return "quality-good"
	case "acceptable":
		return "quality-acceptable"
	default:
		return "quality-poor"
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * {
            box-sizing: border-box;
            margin: 0;
            padding: 0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f5f5f5;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px;
            border-radius: 10px;
            margin-bottom: 20px;
        }
        .header h1 {
            font-size: 2em;
            margin-bottom: 10px;
        }
        .header .subtitle {
            opacity: 0.9;
        }
        .card {
            background: white;
            border-radius: 10px;
            padding: 20px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .card h2 {
            color: #667eea;
            margin-bottom: 15px;
            padding-bottom: 10px;
            border-bottom: 2px solid #f0f0f0;
        }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
            gap: 15px;
        }
        .stat-box {
            background: #f8f9fa;
            padding: 20px;
            border-radius: 8px;
            text-align: center;
        }
        .stat-value {
            font-size: 2em;
            font-weight: bold;
            color: #333;
        }
        .stat-label {
            color: #666;
            font-size: 0.9em;
            margin-top: 5px;
        }
        .score-display {
            text-align: center;
            padding: 30px;
        }
        .score-circle {
            width: 150px;
            height: 150px;
            border-radius: 50%;
            display: inline-flex;
            align-items: center;
            justify-content: center;
            font-size: 2.5em;
            font-weight: bold;
            color: white;
            margin-bottom: 15px;
        }
        .quality-good { background: linear-gradient(135deg, #11998e 0%, #38ef7d 100%); }
        .quality-acceptable { background: linear-gradient(135deg, #f093fb 0%, #f5576c 100%); }
        .quality-poor { background: linear-gradient(135deg, #eb3349 0%, #f45c43 100%); }
        .quality-label {
            font-size: 1.2em;
            font-weight: 600;
            text-transform: uppercase;
        }
        .file-info {
            display: grid;
            grid-template-columns: 100px 1fr;
            gap: 10px;
        }
        .file-info dt {
            color: #666;
            font-weight: 600;
        }
        .file-info dd {
            font-family: 'Monaco', 'Consolas', monospace;
            background: #f8f9fa;
            padding: 5px 10px;
            border-radius: 4px;
        }
        .survivor-list {
            list-style: none;
        }
        .survivor-item {
            border: 1px solid #e0e0e0;
            border-radius: 8px;
            margin-bottom: 10px;
            padding: 15px;
        }
        .survivor-line {
            font-weight: 600;
            color: #f45c43;
            margin-bottom: 8px;
        }
        .survivor-change {
            font-family: 'Monaco', 'Consolas', monospace;
            font-size: 0.9em;
            background: #f8f9fa;
            padding: 5px 10px;
            border-radius: 4px;
            margin-bottom: 5px;
        }
        .suggestion-list {
            list-style: disc;
            padding-left: 25px;
        }
        .suggestion-list li {
            margin-bottom: 8px;
        }
        .footer {
            text-align: center;
            color: #666;
            padding: 20px;
            font-size: 0.9em;
        }
        .no-survivors {
            text-align: center;
            padding: 40px;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <div class="subtitle">Generated on {{.GeneratedAt}}</div>
        </div>

        <div class="card">
            <h2>Source</h2>
            <dl class="file-info">
                <dt>File:</dt>
                <dd>{{.SourcePath}}</dd>
            </dl>
        </div>

        <div class="card">
            <h2>Kill Rate</h2>
            <div class="score-display">
                <div class="score-circle {{.QualityClass}}">
                    {{.KillRate}}
                </div>
                <div class="quality-label {{.QualityClass}}">{{.Quality}}</div>
            </div>
        </div>

        <div class="card">
            <h2>Statistics</h2>
            <div class="stats-grid">
                <div class="stat-box">
                    <div class="stat-value">{{.Total}}</div>
                    <div class="stat-label">Total Mutants</div>
                </div>
                <div class="stat-box">
                    <div class="stat-value" style="color: #38ef7d;">{{.Killed}}</div>
                    <div class="stat-label">Killed</div>
                </div>
                <div class="stat-box">
                    <div class="stat-value" style="color: #f45c43;">{{.Survived}}</div>
                    <div class="stat-label">Survived</div>
                </div>
            </div>
        </div>

        <div class="card">
            <h2>Surviving Mutants</h2>
            {{if .SurvivorLines}}
            <ul class="survivor-list">
                {{range .SurvivorLines}}
                <li class="survivor-item">
                    <div class="survivor-line">Line {{.Line}}</div>
                    {{range .Mutants}}
                    <div class="survivor-change">{{.Mutation.Original}} &rarr; {{.Mutation.Replacement}} ({{.Mutation.Description}})</div>
                    {{end}}
                </li>
                {{end}}
            </ul>
            {{else}}
            <div class="no-survivors">
                <p>Every executed mutant was killed</p>
            </div>
            {{end}}
        </div>

        {{if .Suggestions}}
        <div class="card">
            <h2>Suggestions</h2>
            <ul class="suggestion-list">
                {{range .Suggestions}}
                <li>{{.}}</li>
                {{end}}
            </ul>
        </div>
        {{end}}

        <div class="footer">
            Generated by Mutant
        </div>
    </div>
</body>
</html>`
