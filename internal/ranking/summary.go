package ranking

import "math"

// Summary is the aggregate strip shown under a projected table: top
// performer, average of the active metric, and totals across the displayed
// rows.
type Summary struct {
	TopPerformer     string  `json:"topPerformer"`
	AverageMetric    float64 `json:"averageMetric"`
	TotalSolved      int     `json:"totalSolved"`
	TotalAttended    int     `json:"totalAttended"`
	DisplayedEntries int     `json:"displayedEntries"`
}

// Summarize computes the summary for one projection. Empty input yields the
// zero Summary.
func Summarize(rows []RankedEntry, view View) Summary {
	s := Summary{DisplayedEntries: len(rows)}
	if len(rows) == 0 {
		return s
	}

	s.TopPerformer = rows[0].Username

	var sum float64
	for _, row := range rows {
		sum += row.Metric(view)
		s.TotalSolved += row.TotalSolved
		s.TotalAttended += row.AttendedContests
	}
	s.AverageMetric = math.Round(sum / float64(len(rows)))
	return s
}
