// Package viewmodel owns the state behind the trending list: the selected
// range, the fetch lifecycle, the theme and the rows derived for rendering.
//
// Every fetch is tagged with a ticket. Only the ticket from the most recent
// Select may change the state, so a slow response for an old range can never
// overwrite the list for the range the user picked last.
package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ghtrending/ghtrending/pkg/trending"
)

// ErrSuperseded is returned by Load when a newer selection replaced the load
// before its result arrived.
var ErrSuperseded = errors.New("load superseded by a newer selection")

// State is the fetch lifecycle of the list
type State int

const (
	// Loading is the initial state and the state after every range change
	Loading State = iota
	// Loaded holds the entries of the last successful fetch
	Loaded
	// Failed means the last fetch failed; no entries are kept
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Theme is the colour scheme used by renderers
type Theme int

const (
	Dark Theme = iota
	Light
)

func (t Theme) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// Toggled returns the other theme
func (t Theme) Toggled() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Fetcher loads the entries for a range. *trending.Client implements it.
type Fetcher interface {
	FetchTrending(ctx context.Context, r trending.Range) ([]trending.Entry, error)
}

// Ticket identifies one fetch. Ctx is cancelled as soon as a newer ticket is
// issued or the ticket is resolved.
type Ticket struct {
	Seq   uint64
	Range trending.Range
	Ctx   context.Context
}

// Snapshot is a consistent copy of the model state
type Snapshot struct {
	State       State
	Selected    trending.Range
	LoadedRange trending.Range
	Entries     []trending.Entry
	Err         error
	Theme       Theme
}

// Option configures a Model
type Option func(*Model)

// WithRange sets the initially selected range
func WithRange(r trending.Range) Option {
	return func(m *Model) {
		if r.Valid() {
			m.selected = r
		}
	}
}

// WithTheme sets the initial theme
func WithTheme(t Theme) Option {
	return func(m *Model) {
		m.theme = t
	}
}

// Model is the list view model. It is safe for concurrent use.
type Model struct {
	mu sync.Mutex

	fetcher Fetcher

	state       State
	selected    trending.Range
	loadedRange trending.Range
	entries     []trending.Entry
	err         error
	theme       Theme

	seq      uint64
	resolved uint64 // last ticket that produced a result
	cancel   context.CancelFunc
}

// New creates a model in the Loading state with the default range selected
// and the dark theme.
func New(fetcher Fetcher, opts ...Option) *Model {
	m := &Model{
		fetcher:  fetcher,
		state:    Loading,
		selected: trending.DefaultRange(),
		theme:    Dark,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Select switches to range r and issues a new ticket. The list is cleared and
// the previous in-flight fetch, if any, is cancelled.
func (m *Model) Select(ctx context.Context, r trending.Range) Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.seq++

	m.state = Loading
	m.selected = r
	m.entries = nil
	m.err = nil

	slog.Debug("Range selected", "range", r, "seq", m.seq)
	return Ticket{Seq: m.seq, Range: r, Ctx: fetchCtx}
}

// Run fetches the ticket's range and resolves the ticket with the result.
// It reports whether the result was applied.
func (m *Model) Run(t Ticket) bool {
	entries, err := m.fetcher.FetchTrending(t.Ctx, t.Range)
	return m.Resolve(t, entries, err)
}

// Resolve applies a fetch result if t is still the latest ticket. Results for
// superseded tickets, and any result after the first for a ticket, are dropped
// and false is returned.
func (m *Model) Resolve(t Ticket, entries []trending.Entry, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.Seq == 0 || t.Seq != m.seq {
		slog.Debug("Discarding stale result", "range", t.Range, "seq", t.Seq, "latest", m.seq)
		return false
	}
	if t.Seq == m.resolved {
		slog.Debug("Discarding duplicate result", "range", t.Range, "seq", t.Seq)
		return false
	}
	m.resolved = t.Seq

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if err != nil {
		slog.Warn("Failed to load trending repositories", "range", t.Range, "error", err)
		m.state = Failed
		m.entries = nil
		m.err = err
		return true
	}

	m.state = Loaded
	m.loadedRange = t.Range
	m.entries = append([]trending.Entry(nil), entries...)
	m.err = nil
	return true
}

// Load selects r and fetches it synchronously. It returns the fetch error,
// or ErrSuperseded when a concurrent Select took over.
func (m *Model) Load(ctx context.Context, r trending.Range) error {
	t := m.Select(ctx, r)
	if !m.Run(t) {
		return ErrSuperseded
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq != t.Seq {
		return ErrSuperseded
	}
	return m.err
}

// Close cancels any in-flight fetch
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Snapshot returns a copy of the current state
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		State:       m.state,
		Selected:    m.selected,
		LoadedRange: m.loadedRange,
		Entries:     append([]trending.Entry(nil), m.entries...),
		Err:         m.err,
		Theme:       m.theme,
	}
}

// Selected returns the currently selected range
func (m *Model) Selected() trending.Range {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// VisibleEntries returns the render-ready rows. Only the Loaded state has
// rows; Loading and Failed return nil.
func (m *Model) VisibleEntries() []trending.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Loaded {
		return nil
	}
	return trending.DeriveAll(m.entries, m.loadedRange)
}

// ToggleTheme switches between the dark and light themes
func (m *Model) ToggleTheme() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = m.theme.Toggled()
	return m.theme
}

// Theme returns the current theme
func (m *Model) Theme() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}
