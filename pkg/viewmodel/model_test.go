package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ghtrending/ghtrending/pkg/trending"
)

type fetchResult struct {
	entries []trending.Entry
	err     error
}

// stubFetcher returns canned results per range
type stubFetcher struct {
	mu      sync.Mutex
	results map[trending.Range]fetchResult
	calls   []trending.Range
}

func (f *stubFetcher) FetchTrending(_ context.Context, r trending.Range) ([]trending.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r)
	res := f.results[r]
	return res.entries, res.err
}

// gatedFetcher blocks each range until the test releases it. It ignores
// cancellation so late responses still arrive.
type gatedFetcher struct {
	gates   map[trending.Range]chan fetchResult
	started chan trending.Range
}

func newGatedFetcher(ranges ...trending.Range) *gatedFetcher {
	f := &gatedFetcher{
		gates:   make(map[trending.Range]chan fetchResult),
		started: make(chan trending.Range, len(ranges)),
	}
	for _, r := range ranges {
		f.gates[r] = make(chan fetchResult, 1)
	}
	return f
}

func (f *gatedFetcher) FetchTrending(_ context.Context, r trending.Range) ([]trending.Entry, error) {
	f.started <- r
	res := <-f.gates[r]
	return res.entries, res.err
}

func TestNew_Defaults(t *testing.T) {
	m := New(&stubFetcher{})
	snap := m.Snapshot()

	if snap.State != Loading {
		t.Errorf("State = %v, want %v", snap.State, Loading)
	}
	if snap.Selected != trending.DefaultRange() {
		t.Errorf("Selected = %v, want %v", snap.Selected, trending.DefaultRange())
	}
	if snap.Theme != Dark {
		t.Errorf("Theme = %v, want %v", snap.Theme, Dark)
	}
	if rows := m.VisibleEntries(); rows != nil {
		t.Errorf("VisibleEntries() = %v, want nil before the first load", rows)
	}
}

func TestNew_Options(t *testing.T) {
	m := New(&stubFetcher{}, WithRange(trending.AllTime), WithTheme(Light))
	if m.Selected() != trending.AllTime {
		t.Errorf("Selected() = %v, want %v", m.Selected(), trending.AllTime)
	}
	if m.Theme() != Light {
		t.Errorf("Theme() = %v, want %v", m.Theme(), Light)
	}

	m = New(&stubFetcher{}, WithRange(trending.Range(99)))
	if m.Selected() != trending.DefaultRange() {
		t.Errorf("invalid WithRange should be ignored, got %v", m.Selected())
	}
}

func TestLoad_ScenarioA(t *testing.T) {
	fetcher := &stubFetcher{results: map[trending.Range]fetchResult{
		trending.Last7Days: {entries: []trending.Entry{{RepoName: "foo/bar", Stars: 5, Topics: []string{}}}},
	}}
	m := New(fetcher)

	if err := m.Load(context.Background(), trending.Last7Days); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := m.Snapshot()
	if snap.State != Loaded || snap.LoadedRange != trending.Last7Days {
		t.Errorf("State = %v for %v, want loaded for %v", snap.State, snap.LoadedRange, trending.Last7Days)
	}

	rows := m.VisibleEntries()
	if len(rows) != 1 {
		t.Fatalf("VisibleEntries() returned %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Owner != "foo" || row.Name != "bar" || row.LanguageLabel != "Other" {
		t.Errorf("row = %+v", row)
	}
	if row.Stars != 5 || row.StarsSuffix != "this week" || len(row.VisibleTopics) != 0 {
		t.Errorf("row = %+v", row)
	}
}

func TestLoad_ScenarioB(t *testing.T) {
	networkErr := errors.New("connection refused")
	fetcher := &stubFetcher{results: map[trending.Range]fetchResult{
		trending.Last24Hours: {entries: []trending.Entry{{RepoName: "a/b", Stars: 1}}},
		trending.Last7Days:   {err: networkErr},
	}}
	m := New(fetcher)

	if err := m.Load(context.Background(), trending.Last24Hours); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	err := m.Load(context.Background(), trending.Last7Days)
	if !errors.Is(err, networkErr) {
		t.Fatalf("Load() error = %v, want %v", err, networkErr)
	}

	snap := m.Snapshot()
	if snap.State != Failed {
		t.Errorf("State = %v, want %v", snap.State, Failed)
	}
	if len(snap.Entries) != 0 {
		t.Errorf("Entries = %v, stale data must not survive a failure", snap.Entries)
	}
	if rows := m.VisibleEntries(); rows != nil {
		t.Errorf("VisibleEntries() = %v, want nil in the failed state", rows)
	}
}

func TestSelect_DropsPreviousRows(t *testing.T) {
	fetcher := &stubFetcher{results: map[trending.Range]fetchResult{
		trending.Last24Hours: {entries: []trending.Entry{{RepoName: "a/b"}}},
	}}
	m := New(fetcher)
	if err := m.Load(context.Background(), trending.Last24Hours); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	m.Select(context.Background(), trending.Last30Days)

	snap := m.Snapshot()
	if snap.State != Loading || snap.Selected != trending.Last30Days {
		t.Errorf("after Select: State = %v Selected = %v", snap.State, snap.Selected)
	}
	if len(snap.Entries) != 0 || m.VisibleEntries() != nil {
		t.Error("Loading state should not expose the previous range's rows")
	}
}

func TestSelect_CancelsPreviousTicket(t *testing.T) {
	m := New(&stubFetcher{})

	first := m.Select(context.Background(), trending.Last24Hours)
	second := m.Select(context.Background(), trending.Last7Days)

	if second.Seq <= first.Seq {
		t.Errorf("sequence numbers must increase: %d then %d", first.Seq, second.Seq)
	}
	if !errors.Is(first.Ctx.Err(), context.Canceled) {
		t.Errorf("first ticket context error = %v, want canceled", first.Ctx.Err())
	}
	if second.Ctx.Err() != nil {
		t.Errorf("latest ticket context error = %v, want nil", second.Ctx.Err())
	}
}

func TestResolve_IgnoresStaleAndZeroTickets(t *testing.T) {
	m := New(&stubFetcher{})

	if m.Resolve(Ticket{}, []trending.Entry{{RepoName: "x/y"}}, nil) {
		t.Error("Resolve() applied a zero ticket")
	}

	stale := m.Select(context.Background(), trending.Last24Hours)
	latest := m.Select(context.Background(), trending.Last7Days)

	if m.Resolve(stale, []trending.Entry{{RepoName: "stale/one"}}, nil) {
		t.Error("Resolve() applied a stale ticket")
	}
	if m.Snapshot().State != Loading {
		t.Errorf("stale result changed the state to %v", m.Snapshot().State)
	}

	if !m.Resolve(latest, []trending.Entry{{RepoName: "fresh/one"}}, nil) {
		t.Fatal("Resolve() rejected the latest ticket")
	}
	if m.Resolve(latest, nil, errors.New("late duplicate")) {
		t.Error("a ticket should only resolve once")
	}

	rows := m.VisibleEntries()
	if len(rows) != 1 || rows[0].RepoName != "fresh/one" {
		t.Errorf("VisibleEntries() = %+v, want fresh/one", rows)
	}
}

func TestResolve_OnlyOnce(t *testing.T) {
	m := New(&stubFetcher{})
	tk := m.Select(context.Background(), trending.Last7Days)

	if !m.Resolve(tk, []trending.Entry{{RepoName: "fresh/one"}}, nil) {
		t.Fatal("Resolve() rejected the first result")
	}
	if m.Resolve(tk, nil, errors.New("late failure")) {
		t.Error("Resolve() applied a second result for the same ticket")
	}
	if m.Resolve(tk, []trending.Entry{{RepoName: "other/two"}}, nil) {
		t.Error("Resolve() applied a third result for the same ticket")
	}

	snap := m.Snapshot()
	if snap.State != Loaded {
		t.Errorf("State = %v, want %v", snap.State, Loaded)
	}
	if snap.Err != nil {
		t.Errorf("Err = %v, want nil", snap.Err)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].RepoName != "fresh/one" {
		t.Errorf("Entries = %+v, want fresh/one", snap.Entries)
	}

	next := m.Select(context.Background(), trending.Last24Hours)
	if !m.Resolve(next, []trending.Entry{{RepoName: "day/one"}}, nil) {
		t.Error("Resolve() rejected a new ticket after a resolved one")
	}
}

// TestScenarioC switches the range before the first fetch resolves. The final
// state always belongs to the latest selection, whatever order the responses
// arrive in.
func TestScenarioC(t *testing.T) {
	tests := []struct {
		name       string
		staleFirst bool
	}{
		{"stale response arrives first", true},
		{"stale response arrives last", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newGatedFetcher(trending.Last24Hours, trending.Last7Days)
			m := New(fetcher)

			first := m.Select(context.Background(), trending.Last24Hours)
			firstDone := make(chan bool, 1)
			go func() { firstDone <- m.Run(first) }()
			<-fetcher.started

			second := m.Select(context.Background(), trending.Last7Days)
			secondDone := make(chan bool, 1)
			go func() { secondDone <- m.Run(second) }()
			<-fetcher.started

			staleEntries := []trending.Entry{{RepoName: "old/day"}}
			freshEntries := []trending.Entry{{RepoName: "new/week"}}

			var firstApplied, secondApplied bool
			if tt.staleFirst {
				fetcher.gates[trending.Last24Hours] <- fetchResult{entries: staleEntries}
				firstApplied = waitFor(t, firstDone)
				fetcher.gates[trending.Last7Days] <- fetchResult{entries: freshEntries}
				secondApplied = waitFor(t, secondDone)
			} else {
				fetcher.gates[trending.Last7Days] <- fetchResult{entries: freshEntries}
				secondApplied = waitFor(t, secondDone)
				fetcher.gates[trending.Last24Hours] <- fetchResult{entries: staleEntries}
				firstApplied = waitFor(t, firstDone)
			}

			if firstApplied {
				t.Error("superseded fetch was applied")
			}
			if !secondApplied {
				t.Error("latest fetch was not applied")
			}

			snap := m.Snapshot()
			if snap.State != Loaded || snap.Selected != trending.Last7Days || snap.LoadedRange != trending.Last7Days {
				t.Errorf("final state = %v selected %v loaded %v", snap.State, snap.Selected, snap.LoadedRange)
			}
			rows := m.VisibleEntries()
			if len(rows) != 1 || rows[0].RepoName != "new/week" || rows[0].StarsSuffix != "this week" {
				t.Errorf("VisibleEntries() = %+v, want the last_7_days list", rows)
			}
		})
	}
}

func TestLoad_Superseded(t *testing.T) {
	fetcher := newGatedFetcher(trending.Last24Hours)
	m := New(fetcher)

	errc := make(chan error, 1)
	go func() { errc <- m.Load(context.Background(), trending.Last24Hours) }()
	<-fetcher.started

	m.Select(context.Background(), trending.AllTime)
	fetcher.gates[trending.Last24Hours] <- fetchResult{entries: []trending.Entry{{RepoName: "a/b"}}}

	select {
	case err := <-errc:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("Load() error = %v, want ErrSuperseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Load() did not return")
	}
}

func TestToggleTheme(t *testing.T) {
	m := New(&stubFetcher{})

	if got := m.ToggleTheme(); got != Light {
		t.Errorf("ToggleTheme() = %v, want %v", got, Light)
	}
	if got := m.ToggleTheme(); got != Dark {
		t.Errorf("ToggleTheme() = %v, want %v", got, Dark)
	}
	if m.Snapshot().Theme != Dark {
		t.Errorf("Snapshot().Theme = %v, want %v", m.Snapshot().Theme, Dark)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	fetcher := &stubFetcher{results: map[trending.Range]fetchResult{
		trending.Last24Hours: {entries: []trending.Entry{{RepoName: "a/b"}}},
	}}
	m := New(fetcher)
	if err := m.Load(context.Background(), trending.Last24Hours); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := m.Snapshot()
	snap.Entries[0].RepoName = "changed/name"

	if m.Snapshot().Entries[0].RepoName != "a/b" {
		t.Error("mutating a snapshot changed the model")
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{Loading: "loading", Loaded: "loaded", Failed: "failed", State(9): "unknown"} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

func waitFor(t *testing.T, done <-chan bool) bool {
	t.Helper()
	select {
	case applied := <-done:
		return applied
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not finish")
		return false
	}
}
