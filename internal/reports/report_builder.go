package reports

import (
	"container/heap"
	"sort"

	"log-profiler/internal/models"
)

//go:generate mockgen -source=report_builder.go -destination=./mocks/report_builder_mock.go -package=mocks
type ReportBuilder interface {
	// Build selects the size URLs with the greatest summed request time and
	// derives their report metrics. Rows come back ordered descending by
	// time_sum; ties rank the earlier-seen URL higher. The aggregation
	// result is not mutated, so building twice yields identical rows.
	Build(result *models.AggregationResult, size int) []models.ReportRow
}

type reportBuilder struct{}

func NewReportBuilder() ReportBuilder {
	return &reportBuilder{}
}

func (b *reportBuilder) Build(result *models.AggregationResult, size int) []models.ReportRow {
	distinctURLs := len(result.TimesByURL)
	if size > distinctURLs {
		size = distinctURLs
	}

	// Top-N selection over a bounded min-heap: the root is the weakest
	// candidate and gets evicted when a stronger one arrives. Avoids a full
	// sort of all distinct URLs.
	candidates := make(urlStatHeap, 0, size+1)
	for seq, url := range result.URLOrder {
		times := result.TimesByURL[url]
		timeSum := 0.0
		for _, t := range times {
			timeSum += t
		}
		heap.Push(&candidates, &urlStat{url: url, seq: seq, times: times, timeSum: timeSum})
		if candidates.Len() > size {
			heap.Pop(&candidates)
		}
	}

	// Drain the heap weakest-first and fill rows back to front.
	rows := make([]models.ReportRow, candidates.Len())
	for i := candidates.Len() - 1; i >= 0; i-- {
		stat := heap.Pop(&candidates).(*urlStat)
		rows[i] = buildRow(stat, distinctURLs, result.TotalTime)
	}

	return rows
}

func buildRow(stat *urlStat, distinctURLs int, totalTime float64) models.ReportRow {
	count := len(stat.times)

	// Sort a copy so the aggregation result keeps its log-order times.
	sortedTimes := make([]float64, count)
	copy(sortedTimes, stat.times)
	sort.Float64s(sortedTimes)

	// Median of an even-length list is the upper of the two central
	// elements; no interpolation.
	timeMed := sortedTimes[count/2]
	timeMax := sortedTimes[count-1]

	timePerc := 0.0
	if totalTime > 0 {
		timePerc = stat.timeSum / totalTime
	}

	return models.ReportRow{
		URL:       stat.url,
		Count:     count,
		CountPerc: float64(count) / float64(distinctURLs),
		TimeSum:   stat.timeSum,
		TimePerc:  timePerc,
		TimeAvg:   stat.timeSum / float64(count),
		TimeMax:   timeMax,
		TimeMed:   timeMed,
	}
}

// urlStat is one URL's ranking candidate. seq is the first-seen order from
// the aggregation pass and breaks time ties deterministically.
type urlStat struct {
	url     string
	seq     int
	times   []float64
	timeSum float64
}

type urlStatHeap []*urlStat

func (h urlStatHeap) Len() int { return len(h) }

func (h urlStatHeap) Less(i, j int) bool {
	if h[i].timeSum != h[j].timeSum {
		return h[i].timeSum < h[j].timeSum
	}
	// Later-seen loses ties, so it sits closer to the root for eviction.
	return h[i].seq > h[j].seq
}

func (h urlStatHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *urlStatHeap) Push(x any) {
	*h = append(*h, x.(*urlStat))
}

func (h *urlStatHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
