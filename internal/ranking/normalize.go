package ranking

import (
	"math"
	"time"
)

// Condition classifies a normalization outcome. "API gave nothing" and "API
// gave only garbage" are distinct states; the caller decides how to surface
// each.
type Condition int

const (
	// DataOK means at least one valid entry was produced.
	DataOK Condition = iota
	// NoData means the source sequence itself was empty.
	NoData
	// NoValidEntries means the source had records but every one was rejected.
	NoValidEntries
)

func (c Condition) String() string {
	switch c {
	case NoData:
		return "no_data"
	case NoValidEntries:
		return "no_valid_entries"
	default:
		return "ok"
	}
}

// Result is the outcome of normalizing one payload. Source counts every raw
// record seen; Valid counts the entries that survived filtering.
type Result struct {
	Entries []Entry
	Source  int
	Valid   int
}

// Condition reports which of the three outcome states this result is in.
func (r Result) Condition() Condition {
	switch {
	case r.Source == 0:
		return NoData
	case r.Valid == 0:
		return NoValidEntries
	default:
		return DataOK
	}
}

// Normalize maps a raw payload into the uniform entry shape for a view.
// Malformed records are dropped, never fatal.
func Normalize(view View, p Payload) Result {
	switch payload := p.(type) {
	case ContestPayload:
		return normalizeContest(payload.Ranks)
	case StatsPayload:
		return normalizeTotal(payload.Stats)
	case ResultsPayload:
		return normalizePeriod(view, payload.Results)
	default:
		return Result{}
	}
}

// normalizeContest keeps a record only when it has a non-empty username and
// a real numeric rating. Everything else is silently dropped; the counts in
// the Result let the caller tell an empty response from a rejected one.
func normalizeContest(ranks []ContestRank) Result {
	entries := make([]Entry, 0, len(ranks))
	for _, rank := range ranks {
		if rank.User.Username == "" || rank.Rating == nil || math.IsNaN(*rank.Rating) {
			continue
		}
		rating := *rank.Rating

		e := Entry{
			ID:                rank.User.ID,
			Username:          rank.User.Username,
			Name:              rank.User.Username,
			Avatar:            initials(rank.User.Username),
			Metrics:           zeroMetrics(),
			ContestRating:     &rating,
			AttendedContests:  rank.AttendedContests,
			TotalParticipants: rank.TotalParticipants,
		}
		if e.ID == "" {
			e.ID = rank.ID
		}
		if e.ID == "" {
			e.ID = "user-" + rank.User.Username
		}
		if rank.GlobalRanking != nil {
			e.GlobalRank = GlobalRank{N: *rank.GlobalRanking, OK: true}
		}
		if rank.TopPercentage != nil && !math.IsNaN(*rank.TopPercentage) {
			pct := *rank.TopPercentage
			e.TopPercentage = &pct
		}
		if rank.Badge != nil {
			e.Badge = rank.Badge.Name
		}
		e.LastUpdated = parseTimestamp(rank.UpdatedAt)

		entries = append(entries, e)
	}
	return Result{Entries: entries, Source: len(ranks), Valid: len(entries)}
}

// normalizeTotal maps aggregate stat records. The total view populates only
// the total metric; period metrics stay zero.
func normalizeTotal(stats []TotalStat) Result {
	entries := make([]Entry, 0, len(stats))
	for _, stat := range stats {
		if stat.Username == "" && stat.User == "" {
			continue
		}
		username := stat.Username
		e := Entry{
			ID:          stat.User,
			Username:    username,
			Name:        username,
			Avatar:      initials(username),
			Metrics:     zeroMetrics(),
			TotalSolved: stat.TotalSolved,
			Difficulty:  Difficulty{Easy: stat.Easy, Medium: stat.Medium, Hard: stat.Hard},
			LastUpdated: parseTimestamp(stat.LastUpdated),
		}
		if e.ID == "" {
			e.ID = "user-" + username
		}
		e.Metrics[ViewTotal] = float64(stat.TotalSolved)
		entries = append(entries, e)
	}
	return Result{Entries: entries, Source: len(stats), Valid: len(entries)}
}

// normalizePeriod maps per-period records for today/this_week/this_month.
// Only the fetched period's metric is populated.
func normalizePeriod(view View, results []PeriodResult) Result {
	entries := make([]Entry, 0, len(results))
	for _, result := range results {
		if result.Username == "" && result.ID == "" {
			continue
		}
		e := Entry{
			ID:          result.ID,
			Username:    result.Username,
			Name:        result.Username,
			Avatar:      initials(result.Username),
			Metrics:     zeroMetrics(),
			TotalSolved: result.TotalCount,
			Difficulty:  Difficulty{Easy: result.Easy, Medium: result.Medium, Hard: result.Hard},
		}
		if e.ID == "" {
			e.ID = "user-" + result.Username
		}
		e.Metrics[view] = float64(result.TotalCount)
		entries = append(entries, e)
	}
	return Result{Entries: entries, Source: len(results), Valid: len(entries)}
}

// parseTimestamp accepts the tracker's RFC3339-ish timestamps. Anything
// unparseable is treated as absent.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
