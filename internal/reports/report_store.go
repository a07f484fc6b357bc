package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"log-profiler/internal/models"
	"log-profiler/internal/shared/filestorages"
	"log-profiler/internal/shared/metrics"
)

//go:generate mockgen -source=report_store.go -destination=./mocks/report_store_mock.go -package=mocks
type ReportStore interface {
	// Write persists the ordered report rows as a JSON artifact keyed by the
	// log file's date token and returns the artifact's storage key. The
	// storage layer writes atomically: the artifact exists in full or not
	// at all.
	Write(ctx context.Context, rows []models.ReportRow, dateToken string) (string, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
}

func NewReportStore(fileStorage filestorages.FileStorage) ReportStore {
	return &reportStore{fileStorage: fileStorage}
}

func (s *reportStore) Write(ctx context.Context, rows []models.ReportRow, dateToken string) (string, error) {
	jsonData, err := json.Marshal(rows)
	if err != nil {
		svcErr := errInternalReportEncodeFailed(err)
		metricReportsWrittenTotal.WithLabelValues(svcErr.Code).Inc()
		return "", svcErr
	}

	key := s.getKey(dateToken)
	putResult, err := s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData))
	if err != nil {
		svcErr := errInternalReportWriteFailed(key, err)
		metricReportsWrittenTotal.WithLabelValues(svcErr.Code).Inc()
		return "", svcErr
	}

	metricReportsWrittenTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return putResult.FileKey, nil
}

func (s *reportStore) getKey(dateToken string) string {
	if dateToken == "" {
		return "report.json"
	}
	return fmt.Sprintf("report-%s.json", dateToken)
}
