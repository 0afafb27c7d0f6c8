package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func periodEntry(username string, view View, count int) Entry {
	e := Entry{
		ID:       "user-" + username,
		Username: username,
		Name:     username,
		Metrics:  zeroMetrics(),
	}
	e.Metrics[view] = float64(count)
	return e
}

func TestProjectStableSortAndDenseRanks(t *testing.T) {
	entries := []Entry{
		periodEntry("first-five", ViewToday, 5),
		periodEntry("three", ViewToday, 3),
		periodEntry("second-five", ViewToday, 5),
		periodEntry("one", ViewToday, 1),
	}

	rows := Project(entries, "", ViewToday)
	require.Len(t, rows, 4)

	// Ties keep their pre-sort order.
	assert.Equal(t, "first-five", rows[0].Username)
	assert.Equal(t, "second-five", rows[1].Username)
	assert.Equal(t, "three", rows[2].Username)
	assert.Equal(t, "one", rows[3].Username)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
	}
}

func TestProjectSearchFilter(t *testing.T) {
	entries := []Entry{
		periodEntry("Alice", ViewToday, 3),
		periodEntry("bob", ViewToday, 2),
		periodEntry("ALina", ViewToday, 1),
	}

	rows := Project(entries, "al", ViewToday)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Username)
	assert.Equal(t, "ALina", rows[1].Username)

	// Ranks stay dense after filtering.
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)

	// Empty term matches everything.
	assert.Len(t, Project(entries, "", ViewToday), 3)
}

func TestProjectRanksRecomputedPerView(t *testing.T) {
	carol := periodEntry("carol", ViewToday, 10)
	carol.Metrics[ViewTotal] = 50
	dave := periodEntry("dave", ViewToday, 2)
	dave.Metrics[ViewTotal] = 400
	entries := []Entry{carol, dave}

	today := Project(entries, "", ViewToday)
	assert.Equal(t, "carol", today[0].Username)
	assert.Equal(t, 1, today[0].Rank)

	// Same underlying set, different view: ranks start over from 1.
	total := Project(entries, "", ViewTotal)
	assert.Equal(t, "dave", total[0].Username)
	assert.Equal(t, 1, total[0].Rank)
	assert.Equal(t, 2, total[1].Rank)
}

func TestProjectContestViewSortsByRating(t *testing.T) {
	low := Entry{Username: "low", Metrics: zeroMetrics(), ContestRating: floatPtr(1400)}
	high := Entry{Username: "high", Metrics: zeroMetrics(), ContestRating: floatPtr(2100)}
	unrated := Entry{Username: "unrated", Metrics: zeroMetrics()}

	rows := Project([]Entry{low, high, unrated}, "", ViewContest)
	require.Len(t, rows, 3)
	assert.Equal(t, "high", rows[0].Username)
	assert.Equal(t, "low", rows[1].Username)
	// Missing rating sorts as zero, not an error.
	assert.Equal(t, "unrated", rows[2].Username)
}

func TestProjectEmptyInput(t *testing.T) {
	assert.Empty(t, Project(nil, "", ViewToday))
	assert.Empty(t, Project([]Entry{}, "anything", ViewTotal))
}

func TestSummarize(t *testing.T) {
	a := periodEntry("alice", ViewToday, 10)
	a.TotalSolved = 100
	a.AttendedContests = 3
	b := periodEntry("bob", ViewToday, 5)
	b.TotalSolved = 40
	b.AttendedContests = 1

	rows := Project([]Entry{a, b}, "", ViewToday)
	sum := Summarize(rows, ViewToday)

	assert.Equal(t, "alice", sum.TopPerformer)
	assert.Equal(t, float64(8), sum.AverageMetric) // round(15/2)
	assert.Equal(t, 140, sum.TotalSolved)
	assert.Equal(t, 4, sum.TotalAttended)
	assert.Equal(t, 2, sum.DisplayedEntries)

	assert.Equal(t, Summary{}, Summarize(nil, ViewToday))
}
