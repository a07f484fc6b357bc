package aggregators

import (
	"log-profiler/internal/shared/metrics"
)

// metricLinesProcessedTotal counts every consumed log line, labeled by
// outcome: "ok" for lines that contributed statistics, "parse_error" for
// lines rejected by the parser and counted against the error threshold.
var (
	metricLinesProcessedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "lines_processed_total",
		},
		[]string{metrics.FieldResult},
	)
)
