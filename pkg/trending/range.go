package trending

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownRange is returned by ParseRange for keys outside the enumeration
var ErrUnknownRange = errors.New("unknown range")

// Range selects which precomputed trending document to fetch
type Range int

// Ranges in display order. The first one is the default selection.
const (
	Last24Hours Range = iota
	Last7Days
	Last30Days
	AllTime
)

type rangeInfo struct {
	key    string
	label  string
	suffix string
	window time.Duration
}

var rangeTable = [...]rangeInfo{
	Last24Hours: {key: "last_24_hours", label: "Last 24 hours", suffix: "today", window: 24 * time.Hour},
	Last7Days:   {key: "last_7_days", label: "Last 7 days", suffix: "this week", window: 7 * 24 * time.Hour},
	Last30Days:  {key: "last_30_days", label: "Last 30 days", suffix: "this month", window: 30 * 24 * time.Hour},
	AllTime:     {key: "all_time", label: "All time", suffix: "all time", window: 0},
}

// AllRanges returns every range in display order
func AllRanges() []Range {
	return []Range{Last24Hours, Last7Days, Last30Days, AllTime}
}

// DefaultRange is the range selected before the user picks one
func DefaultRange() Range {
	return Last24Hours
}

// ParseRange maps a feed key such as "last_7_days" to its Range
func ParseRange(key string) (Range, error) {
	for i, info := range rangeTable {
		if info.key == key {
			return Range(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRange, key)
}

// Valid reports whether r is one of the enumerated ranges
func (r Range) Valid() bool {
	return r >= Last24Hours && r <= AllTime
}

// Key is the string used in feed URLs and file names
func (r Range) Key() string {
	if !r.Valid() {
		return ""
	}
	return rangeTable[r].key
}

// Label is the menu text, e.g. "Last 7 days"
func (r Range) Label() string {
	if !r.Valid() {
		return ""
	}
	return rangeTable[r].label
}

// Suffix is the human-readable period shown after a star count, e.g. "this week"
func (r Range) Suffix() string {
	if !r.Valid() {
		return ""
	}
	return rangeTable[r].suffix
}

// Window is the look-back period. Zero means unbounded.
func (r Range) Window() time.Duration {
	if !r.Valid() {
		return 0
	}
	return rangeTable[r].window
}

// Next returns the following range, wrapping around
func (r Range) Next() Range {
	return Range((int(r) + 1) % len(rangeTable))
}

// Prev returns the preceding range, wrapping around
func (r Range) Prev() Range {
	return Range((int(r) + len(rangeTable) - 1) % len(rangeTable))
}

// String implements fmt.Stringer
func (r Range) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Range(%d)", int(r))
	}
	return r.Key()
}

// MarshalText implements encoding.TextMarshaler
func (r Range) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRange, int(r))
	}
	return []byte(r.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so ranges can be used
// directly as CLI flags and config values.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
