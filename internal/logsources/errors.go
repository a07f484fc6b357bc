package logsources

import (
	"fmt"

	"log-profiler/internal/shared/svcerrors"
)

const (
	codeNoLogFile = "SRC_1000"

	codeInternalLogDirListFailed = "SRC_9000"
	codeInternalLogOpenFailed    = "SRC_9001"
)

// errNoLogFile returns an error when the log directory holds no file with the expected prefix.
func errNoLogFile(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeNoLogFile, "no log file to process", cause)
}

// errInternalLogDirListFailed returns an error when listing the log directory fails.
func errInternalLogDirListFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogDirListFailed, fmt.Errorf("logDirListFailed: %w", cause))
}

// errInternalLogOpenFailed returns an error when the selected log file cannot be opened for reading.
func errInternalLogOpenFailed(name string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogOpenFailed, fmt.Errorf("logOpenFailed %q: %w", name, cause))
}
