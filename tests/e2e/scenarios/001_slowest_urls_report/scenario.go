package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"log-profiler/internal/app"
	"log-profiler/internal/models"
	"log-profiler/internal/shared/configs"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalGoodLines = 10000      // Total number of parsable log lines to generate
	distinctURLs   = 50         // Number of distinct URLs cycled through the log
	malformedLines = 3          // Number of unparsable lines interleaved into the log
	dateToken      = "20250625" // Date token carried in the log file name and report name
)

// ### End - fixed configs

// main runs the e2e scenario: 001_slowest_urls_report
//
// This scenario tests the end-to-end flow of the profiler: log file discovery,
// gzip decompression, line parsing, per-URL aggregation, ranking, and report
// artifact writing. It generates a deterministic gzipped nginx access log,
// runs a full profiling pass over it, and checks the report against
// independently recomputed statistics.
//
// What it tests:
//   - Latest log file selection by name in the log directory
//   - Transparent reading of gzip-compressed logs
//   - Tolerance of malformed lines below the error threshold
//   - Top-N ranking by total request time in descending order
//   - Per-row statistics (count, count_perc, time_sum, time_perc, time_avg, time_max, time_med)
//   - Atomic report writing (no temp files left behind)
//
// Expected results:
//   - A report-20250625.json file appears in the report directory
//   - The report holds exactly REPORT_SIZE rows sorted by time_sum descending
//   - Every row's statistics match the values recomputed from the generated log
//   - Malformed lines are skipped without failing the run
func main() {
	// these configs can be changed to run the scenario
	reportSize := 10          // Number of rows the report is limited to
	errorsThreshold := 0.1    // Maximum tolerated parse error rate
	workDir := ".tmp/e2e-001" // Scenario working directory relative to project root
	wantCleanWorkDir := true  // If true, clean up working directory before running scenario

	// Get project root directory by looking for go.mod file
	// Start from current working directory and walk up until we find go.mod
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}

	// Walk up the directory tree to find go.mod
	for i := 0; i < 10; i++ {
		goModPath := filepath.Join(projectRoot, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			// Reached filesystem root without finding go.mod
			fmt.Fprintf(os.Stderr, "ERROR: Could not find go.mod file. Please run from inside the project\n")
			os.Exit(1)
		}
		projectRoot = parent
	}

	workPath, err := filepath.Abs(filepath.Join(projectRoot, workDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to resolve working directory path: %v\n", err)
		os.Exit(1)
	}

	// Clean up working directory if requested
	if wantCleanWorkDir {
		fmt.Printf("Cleaning working directory: %s\n", workPath)
		if err := os.RemoveAll(workPath); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Failed to clean working directory: %v\n", err)
		} else {
			fmt.Printf("Working directory cleaned\n")
		}
		fmt.Println()
	}

	logDir := filepath.Join(workPath, "logs")
	reportDir := filepath.Join(workPath, "reports")
	for _, dir := range []string{logDir, reportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to create directory %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	fmt.Println("Starting e2e scenario: 001_slowest_urls_report")
	fmt.Printf("LOG_DIR: %s\n", logDir)
	fmt.Printf("REPORT_DIR: %s\n", reportDir)
	fmt.Printf("REPORT_SIZE: %d\n", reportSize)
	fmt.Printf("ERRORS_THRESHOLD: %.2f\n", errorsThreshold)
	fmt.Printf("TOTAL_GOOD_LINES: %d\n", totalGoodLines)
	fmt.Printf("DISTINCT_URLS: %d\n", distinctURLs)
	fmt.Printf("MALFORMED_LINES: %d\n", malformedLines)
	fmt.Println()

	// Generate the deterministic gzipped access log
	logName := "nginx-access-ui.log-" + dateToken + ".gz"
	fmt.Printf("Generating %d lines into %s...\n", totalGoodLines+malformedLines, logName)
	expected := writeAccessLog(filepath.Join(logDir, logName))
	fmt.Printf("Generated log with %d distinct URLs\n", len(expected.timesByURL))

	// A decoy older log that must be ignored in favor of the newer one
	decoyName := "nginx-access-ui.log-20250101"
	decoyLine := logLine("/decoy", 99.9) + "\n"
	if err := os.WriteFile(filepath.Join(logDir, decoyName), []byte(decoyLine), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to write decoy log: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote decoy log %s\n", decoyName)
	fmt.Println()

	// Run a full profiling pass
	fmt.Println("Running profiling pass...")
	cfg := &configs.Config{
		ReportSize:      reportSize,
		ReportDir:       reportDir,
		LogDir:          logDir,
		ErrorsThreshold: errorsThreshold,
		LogLevel:        "info",
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Profiling run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	// Verify the report artifact
	reportName := "report-" + dateToken + ".json"
	fmt.Printf("Verifying %s...\n", reportName)
	payload, err := os.ReadFile(filepath.Join(reportDir, reportName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to read report: %v\n", err)
		os.Exit(1)
	}

	var rows []models.ReportRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to decode report JSON: %v\n", err)
		os.Exit(1)
	}

	failures := verifyReport(rows, expected, reportSize)

	// Verify no temp files were left behind in the report directory
	entries, err := os.ReadDir(reportDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to list report directory: %v\n", err)
		os.Exit(1)
	}
	for _, entry := range entries {
		if entry.Name() != reportName {
			failures = append(failures, fmt.Sprintf("unexpected file in report directory: %s", entry.Name()))
		}
	}

	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", failure)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %d verifications failed\n", len(failures))
		os.Exit(1)
	}

	fmt.Println("All verifications passed")
	fmt.Println("=== Statistics ===")
	fmt.Printf("Report rows: %d\n", len(rows))
	fmt.Printf("Top URL: %s (time_sum=%.3f)\n", rows[0].URL, rows[0].TimeSum)
	fmt.Printf("Total request time in log: %.3f\n", expected.totalTime)
	fmt.Println("Scenario completed successfully")
}

// expectedStats mirrors the aggregation the profiler is expected to perform,
// recomputed here from the same deterministic generation.
type expectedStats struct {
	timesByURL map[string][]float64
	totalTime  float64
}

// writeAccessLog generates the gzipped log and returns the statistics it must
// produce. Line i hits URL i%distinctURLs with a request time that grows with
// the URL index, so higher-numbered URLs accumulate more total time. A few
// malformed lines are interleaved at fixed positions.
func writeAccessLog(path string) expectedStats {
	logFile, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to create log file: %v\n", err)
		os.Exit(1)
	}
	gzipWriter := gzip.NewWriter(logFile)

	expected := expectedStats{timesByURL: make(map[string][]float64)}
	var lines []string
	for i := 0; i < totalGoodLines; i++ {
		urlIndex := i % distinctURLs
		url := fmt.Sprintf("/api/v2/slot/%02d", urlIndex)
		// Vary times within a URL so avg, max and med differ: cycle 1x..3x
		requestTime := 0.001 * float64(urlIndex+1) * float64(i/distinctURLs%3+1)
		requestTime = math.Round(requestTime*1000) / 1000 // match %.3f formatting

		lines = append(lines, logLine(url, requestTime))
		expected.timesByURL[url] = append(expected.timesByURL[url], requestTime)
		expected.totalTime += requestTime

		// Interleave malformed lines early in the log
		if i < malformedLines {
			lines = append(lines, "malformed line")
		}
	}

	if _, err := gzipWriter.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to write log data: %v\n", err)
		os.Exit(1)
	}
	if err := gzipWriter.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to close gzip writer: %v\n", err)
		os.Exit(1)
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to close log file: %v\n", err)
		os.Exit(1)
	}

	return expected
}

func logLine(url string, requestTime float64) string {
	return fmt.Sprintf(`1.196.116.32 -  - [25/Jun/2025:03:50:22 +0300] "GET %s HTTP/1.1" 200 927 "-" "-" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" %.3f`,
		url, requestTime)
}

// verifyReport checks every report row against the recomputed statistics and
// returns a list of human-readable failures, empty when the report is correct.
func verifyReport(rows []models.ReportRow, expected expectedStats, reportSize int) []string {
	var failures []string

	if len(rows) != reportSize {
		failures = append(failures, fmt.Sprintf("expected %d rows, got %d", reportSize, len(rows)))
		return failures
	}

	// Rank all URLs by total time to know which ones belong in the report
	type urlSum struct {
		url string
		sum float64
	}
	ranked := make([]urlSum, 0, len(expected.timesByURL))
	for url, times := range expected.timesByURL {
		var sum float64
		for _, t := range times {
			sum += t
		}
		ranked = append(ranked, urlSum{url: url, sum: sum})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].sum > ranked[j].sum })

	for i, row := range rows {
		if row.URL != ranked[i].url {
			failures = append(failures, fmt.Sprintf("row %d: expected URL %s, got %s", i, ranked[i].url, row.URL))
			continue
		}

		times := append([]float64(nil), expected.timesByURL[row.URL]...)
		sort.Float64s(times)
		count := len(times)

		var sum float64
		for _, t := range times {
			sum += t
		}

		checks := []struct {
			field    string
			got      float64
			expected float64
		}{
			{"count", float64(row.Count), float64(count)},
			{"count_perc", row.CountPerc, float64(count) / float64(len(expected.timesByURL))},
			{"time_sum", row.TimeSum, sum},
			{"time_perc", row.TimePerc, sum / expected.totalTime},
			{"time_avg", row.TimeAvg, sum / float64(count)},
			{"time_max", row.TimeMax, times[count-1]},
			{"time_med", row.TimeMed, times[count/2]},
		}
		for _, check := range checks {
			if math.Abs(check.got-check.expected) > 1e-6 {
				failures = append(failures, fmt.Sprintf("row %d (%s): %s expected %.6f, got %.6f",
					i, row.URL, check.field, check.expected, check.got))
			}
		}
	}

	return failures
}
