// Package dashboard owns the ranking view-model: one store holding the
// active view, search term, and normalized entries, plus the mutating
// actions against the tracker service.
//
// Every fetch replaces the entry set wholesale. A generation token combined
// with cancellation of the superseded request guarantees that when fetches
// race, the latest requested view wins — a stale response never overwrites
// the store.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ducslabs/leetboard/internal/ranking"
	"github.com/ducslabs/leetboard/internal/tracker"
)

// Tracker is the slice of the tracker client the store needs.
type Tracker interface {
	FetchView(ctx context.Context, view ranking.View) (ranking.Payload, error)
	AddUser(ctx context.Context, username, name string) error
	TrackDaily(ctx context.Context) error
	RefreshTotal(ctx context.Context) error
	RefreshContests(ctx context.Context) error
}

// ErrActionInFlight is returned when an action is invoked while a previous
// invocation of the same action has not finished. Distinct actions never
// block each other.
var ErrActionInFlight = errors.New("action already in flight")

// State is the raw view-model. Entries are the normalized, unprojected set
// for the active view.
type State struct {
	View        ranking.View    `json:"view"`
	Search      string          `json:"search"`
	Entries     []ranking.Entry `json:"-"`
	Source      int             `json:"sourceCount"`
	Valid       int             `json:"validCount"`
	Err         string          `json:"error,omitempty"`
	Loading     bool            `json:"loading"`
	LastFetched time.Time       `json:"lastFetched"`
}

// Snapshot is a point-in-time projection of the store: the state plus the
// filtered, sorted, ranked rows and their summary.
type Snapshot struct {
	State
	Rows      []ranking.RankedEntry `json:"rows"`
	Summary   ranking.Summary       `json:"summary"`
	Condition ranking.Condition     `json:"-"`
}

// InFlight reports which actions are currently running.
type InFlight struct {
	AddingUser        bool `json:"addingUser"`
	Tracking          bool `json:"tracking"`
	RefreshingStats   bool `json:"refreshingStats"`
	RefreshingContest bool `json:"refreshingContest"`
}

// Store is the single mutable owner of the view-model. All mutation goes
// through fetch completion or the action methods.
type Store struct {
	tracker Tracker
	logger  *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State

	addingUser        bool
	tracking          bool
	refreshingStats   bool
	refreshingContest bool
}

// NewStore creates a store starting on the given view. No fetch happens
// until SetView or Reload is called.
func NewStore(t Tracker, initial ranking.View, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		tracker: t,
		logger:  logger,
		state:   State{View: initial},
	}
}

// SetView switches the active view and fetches its data. If another SetView
// supersedes this one before its fetch resolves, the late result is
// discarded and the in-flight request cancelled.
func (s *Store) SetView(ctx context.Context, view ranking.View) error {
	if !view.Valid() {
		return fmt.Errorf("unknown ranking view %q", view)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state.View = view
	s.state.Loading = true
	s.state.Err = ""
	s.state.Entries = nil
	s.mu.Unlock()
	defer cancel()

	payload, err := s.tracker.FetchView(fetchCtx, view)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Superseded by a later view selection; latest wins.
		s.logger.Debug("discarding stale fetch", "view", view)
		return nil
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = fmt.Sprintf("failed to fetch %s rankings: %v", view, err)
		s.state.Entries = nil
		s.state.Source = 0
		s.state.Valid = 0
		// Mark the view as not loaded so the next request retries the fetch.
		s.state.LastFetched = time.Time{}
		return err
	}

	res := ranking.Normalize(view, payload)
	s.state.Entries = res.Entries
	s.state.Source = res.Source
	s.state.Valid = res.Valid
	s.state.LastFetched = time.Now()

	if view.IsContest() {
		switch res.Condition() {
		case ranking.NoValidEntries:
			s.state.Err = "no valid contest data entries found in the response"
		case ranking.NoData:
			s.state.Err = "no contest data available from the tracker"
		}
	}
	s.logger.Info("view loaded", "view", view, "source", res.Source, "valid", res.Valid)
	return nil
}

// Reload re-fetches the active view.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	view := s.state.View
	s.mu.Unlock()
	return s.SetView(ctx, view)
}

// SetSearch updates the search term used by Snapshot.
func (s *Store) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Search = term
}

// ActiveView returns the currently selected view.
func (s *Store) ActiveView() ranking.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View
}

// Snapshot projects the current entries with the store's search term.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.state.Search)
}

// Rankings ensures the requested view is loaded, then returns a projection
// filtered by search. A view change or a previously failed load triggers a
// fresh fetch; requesting an already-loaded view reuses its entries.
func (s *Store) Rankings(ctx context.Context, view ranking.View, search string) (Snapshot, error) {
	s.mu.Lock()
	needsFetch := s.state.View != view || s.state.LastFetched.IsZero()
	s.mu.Unlock()

	if needsFetch {
		if err := s.SetView(ctx, view); err != nil {
			return Snapshot{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(search), nil
}

func (s *Store) snapshotLocked(search string) Snapshot {
	rows := ranking.Project(s.state.Entries, search, s.state.View)
	snap := Snapshot{
		State:   s.state,
		Rows:    rows,
		Summary: ranking.Summarize(rows, s.state.View),
	}
	snap.Search = search
	snap.Condition = ranking.Result{Source: s.state.Source, Valid: s.state.Valid}.Condition()
	return snap
}

// InFlight reports the per-action busy flags.
func (s *Store) InFlight() InFlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return InFlight{
		AddingUser:        s.addingUser,
		Tracking:          s.tracking,
		RefreshingStats:   s.refreshingStats,
		RefreshingContest: s.refreshingContest,
	}
}

// AddUser registers a user with the tracker and, on success, re-fetches the
// active view. Validation failures are returned without touching the store.
func (s *Store) AddUser(ctx context.Context, username, name string) error {
	if err := s.begin(&s.addingUser, "add-user"); err != nil {
		return err
	}
	defer s.end(&s.addingUser)

	if err := s.tracker.AddUser(ctx, username, name); err != nil {
		if !errors.Is(err, tracker.ErrEmptyUsername) {
			s.setActionErr(err)
		}
		return err
	}
	return s.Reload(ctx)
}

// TrackDaily triggers the daily tracking job, then unconditionally switches
// the dashboard to the today view and re-fetches it.
func (s *Store) TrackDaily(ctx context.Context) error {
	if err := s.begin(&s.tracking, "track-daily"); err != nil {
		return err
	}
	defer s.end(&s.tracking)

	if err := s.tracker.TrackDaily(ctx); err != nil {
		s.setActionErr(fmt.Errorf("failed to track daily progress: %w", err))
		return err
	}
	return s.SetView(ctx, ranking.ViewToday)
}

// RefreshStats triggers the aggregate stats recompute, then re-fetches
// whichever view is active without switching it.
func (s *Store) RefreshStats(ctx context.Context) error {
	if err := s.begin(&s.refreshingStats, "refresh-stats"); err != nil {
		return err
	}
	defer s.end(&s.refreshingStats)

	if err := s.tracker.RefreshTotal(ctx); err != nil {
		s.setActionErr(fmt.Errorf("failed to refresh problem-solving stats: %w", err))
		return err
	}
	return s.Reload(ctx)
}

// RefreshContests triggers the contest recompute, then re-fetches the
// contest view.
func (s *Store) RefreshContests(ctx context.Context) error {
	if err := s.begin(&s.refreshingContest, "refresh-contests"); err != nil {
		return err
	}
	defer s.end(&s.refreshingContest)

	if err := s.tracker.RefreshContests(ctx); err != nil {
		s.setActionErr(fmt.Errorf("failed to refresh contest data: %w", err))
		return err
	}
	return s.SetView(ctx, ranking.ViewContest)
}

func (s *Store) begin(flag *bool, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return fmt.Errorf("%s: %w", name, ErrActionInFlight)
	}
	*flag = true
	return nil
}

func (s *Store) end(flag *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*flag = false
}

// setActionErr records an action failure without tearing down the entries
// already on screen.
func (s *Store) setActionErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = err.Error()
}
