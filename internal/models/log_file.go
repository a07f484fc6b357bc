package models

// LogFile identifies one rotated access-log file inside the log directory.
type LogFile struct {
	Name      string // file name within the log directory
	DateToken string // date portion of the name, keys the report artifact
	Gzipped   bool
}
