package reports

import (
	"testing"

	"log-profiler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportBuilder_Build_DerivesRowMetrics(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/a", 0.1),
		record("/b", 0.2),
		record("/a", 0.3),
	)

	rows := builder.Build(result, 2)
	require.Len(t, rows, 2)

	assert.Equal(t, "/a", rows[0].URL)
	assert.Equal(t, 2, rows[0].Count)
	assert.InDelta(t, 1.0, rows[0].CountPerc, 1e-9) // 2 requests / 2 distinct urls
	assert.InDelta(t, 0.4, rows[0].TimeSum, 1e-9)
	assert.InDelta(t, 0.4/0.6, rows[0].TimePerc, 1e-9)
	assert.InDelta(t, 0.2, rows[0].TimeAvg, 1e-9)
	assert.InDelta(t, 0.3, rows[0].TimeMax, 1e-9)
	assert.InDelta(t, 0.3, rows[0].TimeMed, 1e-9)

	assert.Equal(t, "/b", rows[1].URL)
	assert.Equal(t, 1, rows[1].Count)
	assert.InDelta(t, 0.5, rows[1].CountPerc, 1e-9)
	assert.InDelta(t, 0.2, rows[1].TimeSum, 1e-9)
	assert.InDelta(t, 0.2/0.6, rows[1].TimePerc, 1e-9)
	assert.InDelta(t, 0.2, rows[1].TimeAvg, 1e-9)
	assert.InDelta(t, 0.2, rows[1].TimeMax, 1e-9)
	assert.InDelta(t, 0.2, rows[1].TimeMed, 1e-9)
}

func TestReportBuilder_Build_SelectsTopByTimeSumDescending(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/small", 0.1),
		record("/large", 5.0),
		record("/medium", 1.0),
		record("/tiny", 0.01),
		record("/medium", 1.5),
	)

	rows := builder.Build(result, 3)
	require.Len(t, rows, 3)

	assert.Equal(t, "/large", rows[0].URL)
	assert.Equal(t, "/medium", rows[1].URL)
	assert.Equal(t, "/small", rows[2].URL)

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].TimeSum, rows[i].TimeSum, "rows must be ordered descending by time_sum")
	}
}

func TestReportBuilder_Build_TieBreaksByFirstSeen(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/first", 0.5),
		record("/second", 0.5),
		record("/third", 0.5),
	)

	rows := builder.Build(result, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "/first", rows[0].URL)
	assert.Equal(t, "/second", rows[1].URL)
}

func TestReportBuilder_Build_SizeExceedsDistinctURLs(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/a", 0.1),
		record("/b", 0.2),
	)

	rows := builder.Build(result, 1000)
	assert.Len(t, rows, 2)
}

func TestReportBuilder_Build_Median(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		times []float64
		want  float64
	}{
		{
			name:  "odd count takes the middle element",
			times: []float64{0.3, 0.1, 0.2},
			want:  0.2,
		},
		{
			name:  "even count takes the upper central element",
			times: []float64{0.4, 0.1, 0.3, 0.2},
			want:  0.3,
		},
		{
			name:  "single element",
			times: []float64{0.7},
			want:  0.7,
		},
	}

	builder := NewReportBuilder()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []*models.LogRecord
			for _, rt := range tt.times {
				records = append(records, record("/u", rt))
			}
			result := aggregate(t, records...)

			rows := builder.Build(result, 1)
			require.Len(t, rows, 1)
			assert.InDelta(t, tt.want, rows[0].TimeMed, 1e-9)
		})
	}
}

func TestReportBuilder_Build_Idempotent(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/a", 0.4),
		record("/a", 0.1),
		record("/b", 0.2),
		record("/a", 0.3),
	)

	first := builder.Build(result, 10)
	second := builder.Build(result, 10)

	assert.Equal(t, first, second)
	assert.Equal(t, []float64{0.4, 0.1, 0.3}, result.TimesByURL["/a"], "building must not reorder the accumulated times")
}

func TestReportBuilder_Build_TimePercSpansAllURLs(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/a", 0.25),
		record("/b", 1.5),
		record("/c", 0.75),
		record("/b", 0.5),
	)

	rows := builder.Build(result, len(result.TimesByURL))

	timePercTotal := 0.0
	timeSumTotal := 0.0
	for _, row := range rows {
		timePercTotal += row.TimePerc
		timeSumTotal += row.TimeSum
	}
	assert.InDelta(t, 1.0, timePercTotal, 1e-9)
	assert.InDelta(t, result.TotalTime, timeSumTotal, 1e-9)
}

func TestReportBuilder_Build_ZeroTotalTime(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := aggregate(t,
		record("/a", 0.0),
		record("/b", 0.0),
	)

	rows := builder.Build(result, 2)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.TimePerc)
	}
}

func TestReportBuilder_Build_NoURLs(t *testing.T) {
	t.Parallel()

	builder := NewReportBuilder()
	result := models.NewEmptyAggregationResult()

	rows := builder.Build(result, 5)
	assert.NotNil(t, rows, "an empty report still serializes as an empty list")
	assert.Empty(t, rows)
}

func record(url string, requestTime float64) *models.LogRecord {
	return &models.LogRecord{URL: url, RequestTime: requestTime}
}

func aggregate(t *testing.T, records ...*models.LogRecord) *models.AggregationResult {
	t.Helper()

	result := models.NewEmptyAggregationResult()
	for _, r := range records {
		result.AddRecord(r)
	}
	return result
}
