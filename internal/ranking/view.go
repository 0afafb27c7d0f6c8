// Package ranking implements the core ranking pipeline: normalizing the
// tracker's heterogeneous payload shapes into uniform entries, and projecting
// them into a filtered, sorted, densely ranked view.
package ranking

import "fmt"

// View is one of the five ranking perspectives. Each maps to exactly one
// tracker endpoint and one primary sort metric.
type View string

const (
	ViewToday     View = "today"
	ViewThisWeek  View = "this_week"
	ViewThisMonth View = "this_month"
	ViewTotal     View = "total"
	ViewContest   View = "contest"
)

// AllViews returns every supported view, in display order.
func AllViews() []View {
	return []View{ViewContest, ViewToday, ViewThisWeek, ViewThisMonth, ViewTotal}
}

// ParseView validates a view identifier.
func ParseView(s string) (View, error) {
	v := View(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown ranking view %q", s)
	}
	return v, nil
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewToday, ViewThisWeek, ViewThisMonth, ViewTotal, ViewContest:
		return true
	}
	return false
}

// IsContest reports whether v is the contest-rating view.
func (v View) IsContest() bool { return v == ViewContest }

// IsPeriod reports whether v is one of the per-period problem-solving views.
func (v View) IsPeriod() bool {
	return v == ViewToday || v == ViewThisWeek || v == ViewThisMonth
}

// Label returns the human-readable name used by table headers.
func (v View) Label() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewThisWeek:
		return "This Week"
	case ViewThisMonth:
		return "This Month"
	case ViewTotal:
		return "Total Questions"
	case ViewContest:
		return "Contest Rankings"
	}
	return string(v)
}
