package logsources

import (
	"bufio"
	"io"
)

const (
	initialLineBuffer = 64 * 1024
	// Lines with long query strings can blow past bufio's default token size.
	maxLineBytes = 1024 * 1024
)

// LineStream is a lazy, forward-only, single-pass sequence of text lines.
// Restarting requires reopening the file. After Scan returns false, Err
// reports the failure that stopped the stream, if any.
type LineStream interface {
	Scan() bool
	Text() string
	Err() error
	Close() error
}

type lineStream struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

func newLineStream(r io.Reader, c io.Closer) LineStream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineBytes)
	return &lineStream{scanner: scanner, closer: c}
}

func (l *lineStream) Scan() bool {
	return l.scanner.Scan()
}

func (l *lineStream) Text() string {
	return l.scanner.Text()
}

func (l *lineStream) Err() error {
	return l.scanner.Err()
}

func (l *lineStream) Close() error {
	return l.closer.Close()
}

// multiCloser closes the gzip reader first, then the underlying file.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var firstErr error
	for _, c := range m {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
