package ranking

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Difficulty is the easy/medium/hard split for problem-solving views.
type Difficulty struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// GlobalRank is a contest placement that the upstream service may not report.
// It serializes as a plain number when known and as the literal "N/A" when not.
type GlobalRank struct {
	N  int
	OK bool
}

// MarshalJSON implements json.Marshaler.
func (g GlobalRank) MarshalJSON() ([]byte, error) {
	if !g.OK {
		return []byte(`"N/A"`), nil
	}
	return []byte(strconv.Itoa(g.N)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Accepts a number or "N/A".
func (g *GlobalRank) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `"N/A"` {
		*g = GlobalRank{}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*g = GlobalRank{}
		return nil
	}
	*g = GlobalRank{N: n, OK: true}
	return nil
}

func (g GlobalRank) String() string {
	if !g.OK {
		return "N/A"
	}
	return strconv.Itoa(g.N)
}

// Entry is the uniform record every payload shape normalizes into. Entries
// are rebuilt in full on every fetch; nothing survives a view switch.
type Entry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`

	// Metrics holds the per-view score, zero-filled for views the fetch did
	// not populate so sort arithmetic stays total.
	Metrics     map[View]float64 `json:"metrics"`
	TotalSolved int              `json:"totalSolved"`
	Difficulty  Difficulty       `json:"difficulty"`

	// Contest-only fields.
	ContestRating     *float64   `json:"contestRating,omitempty"`
	GlobalRank        GlobalRank `json:"globalRank"`
	AttendedContests  int        `json:"attendedContests"`
	TopPercentage     *float64   `json:"topPercentage,omitempty"`
	Badge             string     `json:"badge,omitempty"`
	TotalParticipants int        `json:"totalParticipants,omitempty"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Metric returns the sort value for a view. Missing values sort as 0.
func (e Entry) Metric(v View) float64 {
	if v == ViewContest {
		if e.ContestRating == nil {
			return 0
		}
		return *e.ContestRating
	}
	return e.Metrics[v]
}

// DisplayName returns the display name, falling back to the username.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Username
}

// zeroMetrics returns a metric map with every problem-solving view at 0.
func zeroMetrics() map[View]float64 {
	return map[View]float64{
		ViewToday:     0,
		ViewThisWeek:  0,
		ViewThisMonth: 0,
		ViewTotal:     0,
	}
}

// initials derives the two-letter avatar tag from a username. Usernames are
// not guaranteed ASCII, so truncation happens on runes.
func initials(username string) string {
	r := []rune(username)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

var _ json.Marshaler = GlobalRank{}
