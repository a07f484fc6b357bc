package reports

import (
	"log-profiler/internal/shared/metrics"
)

var (
	metricReportsWrittenTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "reports_written_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
