package reports

import (
	"fmt"

	"log-profiler/internal/shared/svcerrors"
)

const (
	codeInternalReportEncodeFailed = "RPT_9000"
	codeInternalReportWriteFailed  = "RPT_9001"
)

// errInternalReportEncodeFailed returns an error when the report rows cannot be serialized.
func errInternalReportEncodeFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportEncodeFailed, fmt.Errorf("reportEncodeFailed: %w", cause))
}

// errInternalReportWriteFailed returns an error when the report artifact cannot be written.
func errInternalReportWriteFailed(key string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportWriteFailed, fmt.Errorf("reportWriteFailed %q: %w", key, cause))
}
