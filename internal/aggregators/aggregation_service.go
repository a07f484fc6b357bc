package aggregators

import (
	"context"

	"log-profiler/internal/logsources"
	"log-profiler/internal/models"
	"log-profiler/internal/parsers"
	"log-profiler/internal/shared/loggers"
)

const (
	resultOK         = "ok"
	resultParseError = "parse_error"
)

//go:generate mockgen -source=aggregation_service.go -destination=./mocks/aggregation_service_mock.go -package=mocks
type AggregationService interface {
	// Aggregate consumes the line stream in a single pass, accumulating
	// per-URL request times. Unparsable lines are counted and skipped; the
	// run fails only when the stream yields no lines at all or the parse
	// failure rate ends up strictly above the configured threshold.
	Aggregate(ctx context.Context, lines logsources.LineStream) (*models.AggregationResult, error)
}

type aggregationService struct {
	lineParser      parsers.LineParser
	errorsThreshold float64
}

func NewAggregationService(lineParser parsers.LineParser, errorsThreshold float64) AggregationService {
	return &aggregationService{lineParser: lineParser, errorsThreshold: errorsThreshold}
}

func (s *aggregationService) Aggregate(ctx context.Context, lines logsources.LineStream) (*models.AggregationResult, error) {
	logger := loggers.Ctx(ctx)

	result := models.NewEmptyAggregationResult()
	for lines.Scan() {
		record, err := s.lineParser.Parse(lines.Text())
		if err != nil {
			result.AddError()
			metricLinesProcessedTotal.WithLabelValues(resultParseError).Inc()
			logger.Warn().
				Int(loggers.FieldLineNumber, result.TotalLines).
				Str(loggers.FieldReason, err.Error()).
				Msg("skipping unparsable line")
			continue
		}
		result.AddRecord(record)
		metricLinesProcessedTotal.WithLabelValues(resultOK).Inc()
	}
	if err := lines.Err(); err != nil {
		return nil, errInternalLogReadFailed(err)
	}

	if result.TotalLines == 0 {
		return nil, errEmptyLogFile()
	}
	if rate := result.ErrorRate(); rate > s.errorsThreshold {
		return nil, errExcessiveParseErrors(rate, s.errorsThreshold)
	}

	logger.Debug().Msgf("aggregated %d lines (%d parse errors, %d distinct urls)",
		result.TotalLines, result.ErrorCount, len(result.TimesByURL))

	return result, nil
}
