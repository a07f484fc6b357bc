package aggregators

import (
	"fmt"

	"log-profiler/internal/shared/svcerrors"
)

const (
	codeEmptyLogFile         = "AGG_1000"
	codeExcessiveParseErrors = "AGG_1001"

	codeInternalLogReadFailed = "AGG_9000"
)

// errEmptyLogFile returns an error when the log file yields no lines at all.
func errEmptyLogFile() *svcerrors.ServiceError {
	return svcerrors.NewDataQualityError(codeEmptyLogFile, "log file is empty", nil)
}

// errExcessiveParseErrors returns an error when the parse failure rate ends up above the threshold.
func errExcessiveParseErrors(rate, threshold float64) *svcerrors.ServiceError {
	return svcerrors.NewDataQualityError(
		codeExcessiveParseErrors,
		fmt.Sprintf("parse error rate %.4f exceeds threshold %.4f", rate, threshold),
		nil,
	)
}

// errInternalLogReadFailed returns an error when reading the log stream fails mid-pass.
func errInternalLogReadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogReadFailed, fmt.Errorf("logReadFailed: %w", cause))
}
