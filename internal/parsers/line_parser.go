package parsers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"log-profiler/internal/models"
)

// Field layout of the ui access-log format. Splitting is on single spaces
// with empty fields preserved: the double space after remote_user is part of
// the format and keeps the request URL at a fixed position.
const (
	urlFieldIndex = 7
	minLineFields = urlFieldIndex + 1
)

// Reasons a line fails to parse.
const (
	ReasonTooFewFields   = "too_few_fields"
	ReasonEmptyURL       = "empty_url"
	ReasonBadRequestTime = "bad_request_time"
)

// ParseError reports why one line was rejected. It never aborts the run by
// itself; the aggregator counts it against the error threshold.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line parse failed: %s", e.Reason)
}

//go:generate mockgen -source=line_parser.go -destination=./mocks/line_parser_mock.go -package=mocks
type LineParser interface {
	// Parse converts one raw line into a LogRecord, or fails with a *ParseError.
	Parse(line string) (*models.LogRecord, error)
}

type accessLogParser struct{}

func NewAccessLogParser() LineParser {
	return &accessLogParser{}
}

func (p *accessLogParser) Parse(line string) (*models.LogRecord, error) {
	fields := strings.Split(line, " ")
	if len(fields) < minLineFields {
		return nil, &ParseError{Reason: ReasonTooFewFields}
	}

	url := fields[urlFieldIndex]
	if url == "" {
		return nil, &ParseError{Reason: ReasonEmptyURL}
	}

	requestTime, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil || math.IsNaN(requestTime) || math.IsInf(requestTime, 0) || requestTime < 0 {
		return nil, &ParseError{Reason: ReasonBadRequestTime}
	}

	return &models.LogRecord{URL: url, RequestTime: requestTime}, nil
}
