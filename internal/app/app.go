package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"log-profiler/internal/aggregators"
	"log-profiler/internal/logsources"
	"log-profiler/internal/parsers"
	"log-profiler/internal/reports"
	"log-profiler/internal/shared/configs"
	"log-profiler/internal/shared/filestorages"
	"log-profiler/internal/shared/loggers"
	"log-profiler/internal/shared/metrics"
	"log-profiler/internal/shared/svcerrors"
	"log-profiler/internal/shared/ulid"
)

// App holds all application dependencies and manages a single profiling run.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	logSink   io.Closer

	logSource          logsources.LogSource
	aggregationService aggregators.AggregationService
	reportBuilder      reports.ReportBuilder
	reportStore        reports.ReportStore
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, logSink, err := newLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "log-profiler").
		Str(loggers.FieldRunID, ulid.NewULID()).
		Logger()

	// Initialize blob stores: one rooted at the log directory (read side),
	// one at the report directory (write side).
	logStorage, err := filestorages.NewFileStorage(config.LogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log storage: %w", err)
	}
	reportStorage, err := filestorages.NewFileStorage(config.ReportDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}

	logSource := logsources.NewLogSource(logStorage)
	lineParser := parsers.NewAccessLogParser()
	aggregationService := aggregators.NewAggregationService(lineParser, config.ErrorsThreshold)
	reportBuilder := reports.NewReportBuilder()
	reportStore := reports.NewReportStore(reportStorage)

	return &App{
		config:    config,
		appLogger: appLogger,
		logSink:   logSink,

		logSource:          logSource,
		aggregationService: aggregationService,
		reportBuilder:      reportBuilder,
		reportStore:        reportStore,
	}, nil
}

// newLogger builds the run logger, appending to the configured logging path
// when one is set and writing to stdout otherwise.
func newLogger(config *configs.Config) (loggers.Logger, io.Closer, error) {
	if config.LoggingPath == "" {
		logger, err := loggers.New(config.LogLevel)
		return logger, nil, err
	}

	logFile, err := os.OpenFile(config.LoggingPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return loggers.Logger{}, nil, fmt.Errorf("failed to open logging path %q: %w", config.LoggingPath, err)
	}
	logger, err := loggers.NewWithOutput(config.LogLevel, logFile)
	if err != nil {
		_ = logFile.Close()
		return loggers.Logger{}, nil, err
	}
	return logger, logFile, nil
}

// Run executes one profiling pass: select the latest log file, aggregate its
// per-URL request times, write the ranked report artifact. A missing log
// file ends the run cleanly without output.
func (app *App) Run(ctx context.Context) error {
	started := time.Now()
	ctx = app.appLogger.WithContext(ctx)
	logger := loggers.Ctx(ctx)

	logger.Info().
		Msgf("Starting log-profiler run (log_dir=%s, report_dir=%s, report_size=%d, errors_threshold=%.2f)",
			app.config.LogDir, app.config.ReportDir, app.config.ReportSize, app.config.ErrorsThreshold)

	err := app.run(ctx)
	metricRunDurationSeconds.Set(time.Since(started).Seconds())
	app.pushMetrics(ctx)

	if err != nil {
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			if svcErr.IsNotFoundError() {
				logger.Info().Str(loggers.FieldErrorCode, svcErr.Code).Msg("No log file to process, nothing to do")
				return nil
			}
			logger.Error().Err(err).Str(loggers.FieldErrorCode, svcErr.Code).Msg("Profiling run failed")
			return err
		}
		logger.Error().Err(err).Msg("Profiling run failed")
		return err
	}

	logger.Info().
		Dur(loggers.FieldDuration, time.Since(started)).
		Msg("Profiling run finished")
	return nil
}

func (app *App) run(ctx context.Context) error {
	logger := loggers.Ctx(ctx)

	logFile, err := app.logSource.Latest(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str(loggers.FieldLogFile, logFile.Name).Msg("Selected latest log file")

	lines, err := app.logSource.Open(ctx, logFile)
	if err != nil {
		return err
	}
	defer lines.Close()

	result, err := app.aggregationService.Aggregate(ctx, lines)
	if err != nil {
		return err
	}

	rows := app.reportBuilder.Build(result, app.config.ReportSize)

	reportKey, err := app.reportStore.Write(ctx, rows, logFile.DateToken)
	if err != nil {
		return err
	}

	logger.Info().
		Str(loggers.FieldReportKey, reportKey).
		Msgf("Report written (%d rows from %d lines, %d parse errors)",
			len(rows), result.TotalLines, result.ErrorCount)
	return nil
}

// pushMetrics ships the run's metrics to the configured Pushgateway. Push
// failures are logged and do not fail the run.
func (app *App) pushMetrics(ctx context.Context) {
	if app.config.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(app.config.PushgatewayURL, "log-profiler"); err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Msg("Failed to push metrics to gateway")
	}
}

// Close releases the logging sink, if one was opened.
func (app *App) Close() error {
	if app.logSink != nil {
		return app.logSink.Close()
	}
	return nil
}
