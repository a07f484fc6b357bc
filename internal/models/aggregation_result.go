package models

// AggregationResult accumulates per-URL request times over a single pass of
// one log file. Every consumed line counts toward TotalLines; lines that
// failed to parse additionally count toward ErrorCount and contribute no
// statistics.
//
// TimesByURL keeps each URL's request times in log order. URLOrder records
// the first-seen order of distinct URLs, which downstream ranking uses to
// break ties deterministically.
type AggregationResult struct {
	TimesByURL map[string][]float64
	URLOrder   []string
	TotalTime  float64
	TotalLines int
	ErrorCount int
}

func NewEmptyAggregationResult() *AggregationResult {
	return &AggregationResult{
		TimesByURL: make(map[string][]float64),
	}
}

// AddRecord accounts for one successfully parsed line.
func (r *AggregationResult) AddRecord(record *LogRecord) {
	if _, seen := r.TimesByURL[record.URL]; !seen {
		r.URLOrder = append(r.URLOrder, record.URL)
	}
	r.TimesByURL[record.URL] = append(r.TimesByURL[record.URL], record.RequestTime)
	r.TotalTime += record.RequestTime
	r.TotalLines++
}

// AddError accounts for one line that failed to parse.
func (r *AggregationResult) AddError() {
	r.ErrorCount++
	r.TotalLines++
}

// ErrorRate returns the fraction of consumed lines that failed to parse.
func (r *AggregationResult) ErrorRate() float64 {
	if r.TotalLines == 0 {
		return 0
	}
	return float64(r.ErrorCount) / float64(r.TotalLines)
}
