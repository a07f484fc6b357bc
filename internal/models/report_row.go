package models

// ReportRow is one URL's entry in the slowest-URLs report. The JSON field
// names are the report artifact's schema and must stay stable for its
// consumers.
//
// CountPerc divides by the number of distinct URLs, not by the total request
// count, so CountPerc values across a report do not sum to 1. TimePerc values
// across all distinct URLs do sum to 1 relative to the run's total time.
//
// Example JSON:
//
//	{
//	  "url": "/api/v2/banner/25019354",
//	  "count": 2,
//	  "count_perc": 0.5,
//	  "time_sum": 0.39,
//	  "time_perc": 0.372,
//	  "time_avg": 0.195,
//	  "time_max": 0.39,
//	  "time_med": 0.39
//	}
type ReportRow struct {
	URL       string  `json:"url"`
	Count     int     `json:"count"`
	CountPerc float64 `json:"count_perc"`
	TimeSum   float64 `json:"time_sum"`
	TimePerc  float64 `json:"time_perc"`
	TimeAvg   float64 `json:"time_avg"`
	TimeMax   float64 `json:"time_max"`
	TimeMed   float64 `json:"time_med"`
}
