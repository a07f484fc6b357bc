package loggers

const (
	FieldApp   = "app"
	FieldRunID = "run_id"

	FieldDuration   = "duration"
	FieldErrorCode  = "error_code"
	FieldLineNumber = "line_number"
	FieldReason     = "reason"

	FieldLogFile   = "log_file"
	FieldReportKey = "report_key"
)
