package logsources

import (
	"context"
	"errors"
	"strings"

	"log-profiler/internal/models"
	"log-profiler/internal/shared/filestorages"
	"log-profiler/internal/shared/loggers"

	"github.com/klauspost/compress/gzip"
)

const (
	logNamePrefix = "nginx-access-ui.log"
	gzipSuffix    = ".gz"
)

//go:generate mockgen -source=log_source.go -destination=./mocks/log_source_mock.go -package=mocks
type LogSource interface {
	// Latest returns the most recent log file in the directory. Recency is
	// the lexicographically greatest name among files carrying the fixed
	// prefix; the naming convention embeds a sortable date.
	Latest(ctx context.Context) (*models.LogFile, error)

	// Open returns the file's lines as a single-pass stream, transparently
	// decompressing gzip. The caller owns closing the stream.
	Open(ctx context.Context, file *models.LogFile) (LineStream, error)
}

type logSource struct {
	fileStorage filestorages.FileStorage
}

func NewLogSource(fileStorage filestorages.FileStorage) LogSource {
	return &logSource{fileStorage: fileStorage}
}

func (s *logSource) Latest(ctx context.Context) (*models.LogFile, error) {
	names, err := s.fileStorage.List(ctx)
	if err != nil {
		if errors.Is(err, filestorages.ErrRootDirNotFound) {
			return nil, errNoLogFile(err)
		}
		return nil, errInternalLogDirListFailed(err)
	}

	latest := ""
	for _, name := range names {
		if !strings.HasPrefix(name, logNamePrefix) {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return nil, errNoLogFile(nil)
	}

	logFile := &models.LogFile{
		Name:      latest,
		DateToken: dateToken(latest),
		Gzipped:   strings.HasSuffix(latest, gzipSuffix),
	}

	loggers.Ctx(ctx).Debug().
		Str(loggers.FieldLogFile, logFile.Name).
		Msgf("selected latest log file out of %d directory entries", len(names))

	return logFile, nil
}

func (s *logSource) Open(ctx context.Context, file *models.LogFile) (LineStream, error) {
	readCloser, err := s.fileStorage.Get(ctx, file.Name)
	if err != nil {
		return nil, errInternalLogOpenFailed(file.Name, err)
	}

	if !file.Gzipped {
		return newLineStream(readCloser, readCloser), nil
	}

	gzipReader, err := gzip.NewReader(readCloser)
	if err != nil {
		_ = readCloser.Close()
		return nil, errInternalLogOpenFailed(file.Name, err)
	}
	return newLineStream(gzipReader, multiCloser{gzipReader, readCloser}), nil
}

// dateToken extracts the date portion of a log file name: the remainder
// after the fixed prefix, with the separator and compression suffix
// stripped. "nginx-access-ui.log-20170630.gz" yields "20170630".
func dateToken(name string) string {
	token := strings.TrimPrefix(name, logNamePrefix)
	token = strings.TrimSuffix(token, gzipSuffix)
	token = strings.TrimPrefix(token, "-")
	token = strings.TrimPrefix(token, ".")
	return token
}
