package ranking

import "encoding/json"

// Payload is the tagged union of the three response shapes the tracker
// service produces. The normalizer matches on the concrete type instead of
// probing fields ad hoc.
type Payload interface {
	isPayload()
}

// ContestPayload is the raw contest-rankings response: a bare array of
// contest rank records.
type ContestPayload struct {
	Ranks []ContestRank
}

// StatsPayload is the total-leaderboard response: {"stats": [...]}.
type StatsPayload struct {
	Stats []TotalStat `json:"stats"`
}

// ResultsPayload is the period ranking response: {"results": [...]}.
type ResultsPayload struct {
	Results []PeriodResult `json:"results"`
}

func (ContestPayload) isPayload() {}
func (StatsPayload) isPayload()   {}
func (ResultsPayload) isPayload() {}

// ContestRank is one raw contest record. Pointer fields distinguish absent
// from zero; malformed records decode to the zero value and are rejected by
// the normalizer rather than failing the whole response.
type ContestRank struct {
	ID   string `json:"id"`
	User struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"user"`
	Rating           *float64 `json:"rating"`
	GlobalRanking    *int     `json:"globalRanking"`
	AttendedContests int      `json:"attendedContestsCount"`
	TopPercentage    *float64 `json:"topPercentage"`
	Badge            *struct {
		Name string `json:"name"`
	} `json:"badge"`
	TotalParticipants int    `json:"totalParticipants"`
	UpdatedAt         string `json:"updatedAt"`
}

// TotalStat is one raw aggregate stat record from the total leaderboard.
type TotalStat struct {
	User        string `json:"user"`
	Username    string `json:"username"`
	TotalSolved int    `json:"totalSolved"`
	Easy        int    `json:"easy"`
	Medium      int    `json:"medium"`
	Hard        int    `json:"hard"`
	LastUpdated string `json:"lastUpdated"`
}

// PeriodResult is one raw per-period record from the ranking endpoint.
type PeriodResult struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	TotalCount int    `json:"totalCount"`
	Easy       int    `json:"easy"`
	Medium     int    `json:"medium"`
	Hard       int    `json:"hard"`
}

// ParsePayload decodes a raw tracker response body into the payload shape
// for a view. A body that lacks the expected shape decodes to an empty
// payload, never an error — the caller renders an empty state instead of
// crashing on upstream garbage.
func ParsePayload(view View, body []byte) (Payload, error) {
	switch {
	case view.IsContest():
		return parseContest(body), nil
	case view == ViewTotal:
		var p StatsPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return StatsPayload{}, nil
		}
		return p, nil
	default:
		var p ResultsPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return ResultsPayload{}, nil
		}
		return p, nil
	}
}

// parseContest decodes each contest record independently so one malformed
// record cannot take down the rest. Undecodable records stay in the slice as
// zero values: they count toward the source total and fail the normalizer's
// validity filter.
func parseContest(body []byte) ContestPayload {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ContestPayload{}
	}
	ranks := make([]ContestRank, len(raw))
	for i, msg := range raw {
		_ = json.Unmarshal(msg, &ranks[i])
	}
	return ContestPayload{Ranks: ranks}
}
