package app

import (
	"log-profiler/internal/shared/metrics"
)

// metricRunDurationSeconds records the wall-clock duration of the last
// profiling run, including report writing.
var (
	metricRunDurationSeconds = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRun,
			Name:      "duration_seconds",
		},
	)
)
