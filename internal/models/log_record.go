package models

// LogRecord is a single parsed access-log line.
type LogRecord struct {
	URL         string
	RequestTime float64 // seconds, non-negative
}
