package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"log-profiler/internal/models"
	"log-profiler/internal/shared/configs"
	"log-profiler/internal/shared/svcerrors"
)

func TestApp_Run_WritesReport(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", []string{
		logLine("/a", 0.1),
		logLine("/b", 0.2),
		logLine("/a", 0.3),
	})

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.NoError(t, err)

	rows := readReport(t, config.ReportDir, "report-20170630.json")
	require.Len(t, rows, 2)

	assert.Equal(t, "/a", rows[0].URL)
	assert.Equal(t, 2, rows[0].Count)
	assert.InDelta(t, 1.0, rows[0].CountPerc, 1e-9)
	assert.InDelta(t, 0.4, rows[0].TimeSum, 1e-9)
	assert.InDelta(t, 0.4/0.6, rows[0].TimePerc, 1e-9)
	assert.InDelta(t, 0.2, rows[0].TimeAvg, 1e-9)
	assert.InDelta(t, 0.3, rows[0].TimeMax, 1e-9)
	assert.InDelta(t, 0.3, rows[0].TimeMed, 1e-9)

	assert.Equal(t, "/b", rows[1].URL)
	assert.Equal(t, 1, rows[1].Count)
}

func TestApp_Run_GzippedLog(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	writeGzipLogFile(t, config.LogDir, "nginx-access-ui.log-20170701.gz", []string{
		logLine("/api/v2/banner/1", 0.39),
	})

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.NoError(t, err)

	rows := readReport(t, config.ReportDir, "report-20170701.json")
	require.Len(t, rows, 1)
	assert.Equal(t, "/api/v2/banner/1", rows[0].URL)
}

func TestApp_Run_PicksLatestLog(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", []string{logLine("/old", 0.1)})
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170701", []string{logLine("/new", 0.2)})

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.NoError(t, err)

	rows := readReport(t, config.ReportDir, "report-20170701.json")
	require.Len(t, rows, 1)
	assert.Equal(t, "/new", rows[0].URL)

	assert.NoFileExists(t, filepath.Join(config.ReportDir, "report-20170630.json"))
}

func TestApp_Run_NoLogFile_IsNotAnError(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(config.ReportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_Run_ExcessiveParseErrors(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	lines := []string{
		"garbage", "garbage", "garbage",
	}
	for i := 0; i < 7; i++ {
		lines = append(lines, logLine("/a", 0.1))
	}
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", lines)

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.Error(t, err)

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "AGG_1001", svcErr.Code)

	assert.NoFileExists(t, filepath.Join(config.ReportDir, "report-20170630.json"))
}

func TestApp_Run_EmptyLogFile(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", nil)

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.Error(t, err)

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "AGG_1000", svcErr.Code)
}

func TestApp_Run_Rerun_ProducesSameReport(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", []string{
		logLine("/a", 0.1),
		logLine("/b", 0.2),
	})

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	require.NoError(t, application.Run(context.Background()))
	first, err := os.ReadFile(filepath.Join(config.ReportDir, "report-20170630.json"))
	require.NoError(t, err)

	require.NoError(t, application.Run(context.Background()))
	second, err := os.ReadFile(filepath.Join(config.ReportDir, "report-20170630.json"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestApp_Run_RespectsReportSize(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	config.ReportSize = 1
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", []string{
		logLine("/a", 0.1),
		logLine("/b", 0.9),
		logLine("/c", 0.2),
	})

	application, err := New(config)
	require.NoError(t, err)
	defer application.Close()

	err = application.Run(context.Background())
	require.NoError(t, err)

	rows := readReport(t, config.ReportDir, "report-20170630.json")
	require.Len(t, rows, 1)
	assert.Equal(t, "/b", rows[0].URL)
}

func TestApp_Run_WritesDiagnosticsToLoggingPath(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	config.LogLevel = "info"
	config.LoggingPath = filepath.Join(t.TempDir(), "profiler.log")
	writeLogFile(t, config.LogDir, "nginx-access-ui.log-20170630", []string{logLine("/a", 0.1)})

	application, err := New(config)
	require.NoError(t, err)

	err = application.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, application.Close())

	diagnostics, err := os.ReadFile(config.LoggingPath)
	require.NoError(t, err)
	assert.Contains(t, string(diagnostics), "Profiling run finished")
}

func TestNew_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	config.LogLevel = "verbose"

	_, err := New(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize logger")
}

func TestApp_Close_WithoutLoggingPath(t *testing.T) {
	t.Parallel()

	application, err := New(newTestConfig(t))
	require.NoError(t, err)

	assert.NoError(t, application.Close())
}

func newTestConfig(t *testing.T) *configs.Config {
	t.Helper()

	return &configs.Config{
		ReportSize:      1000,
		ReportDir:       t.TempDir(),
		LogDir:          t.TempDir(),
		ErrorsThreshold: 0.1,
		LogLevel:        "error",
	}
}

func logLine(url string, requestTime float64) string {
	return fmt.Sprintf(`1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "GET %s HTTP/1.1" 200 927 "-" "-" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" %.3f`,
		url, requestTime)
}

func writeLogFile(t *testing.T, dir, name string, lines []string) {
	t.Helper()

	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func writeGzipLogFile(t *testing.T, dir, name string, lines []string) {
	t.Helper()

	logFile, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)

	gzipWriter := gzip.NewWriter(logFile)
	_, err = gzipWriter.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())
	require.NoError(t, logFile.Close())
}

func readReport(t *testing.T, reportDir, name string) []models.ReportRow {
	t.Helper()

	payload, err := os.ReadFile(filepath.Join(reportDir, name))
	require.NoError(t, err)

	var rows []models.ReportRow
	require.NoError(t, json.Unmarshal(payload, &rows))
	return rows
}
