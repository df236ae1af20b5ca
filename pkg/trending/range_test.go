package trending

import (
	"errors"
	"testing"
	"time"
)

func TestRangeMetadata(t *testing.T) {
	tests := []struct {
		r      Range
		key    string
		label  string
		suffix string
		window time.Duration
	}{
		{Last24Hours, "last_24_hours", "Last 24 hours", "today", 24 * time.Hour},
		{Last7Days, "last_7_days", "Last 7 days", "this week", 7 * 24 * time.Hour},
		{Last30Days, "last_30_days", "Last 30 days", "this month", 30 * 24 * time.Hour},
		{AllTime, "all_time", "All time", "all time", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := tt.r.Key(); got != tt.key {
				t.Errorf("Key() = %q, want %q", got, tt.key)
			}
			if got := tt.r.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
			if got := tt.r.Suffix(); got != tt.suffix {
				t.Errorf("Suffix() = %q, want %q", got, tt.suffix)
			}
			if got := tt.r.Window(); got != tt.window {
				t.Errorf("Window() = %v, want %v", got, tt.window)
			}

			parsed, err := ParseRange(tt.key)
			if err != nil {
				t.Fatalf("ParseRange(%q) error = %v", tt.key, err)
			}
			if parsed != tt.r {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.key, parsed, tt.r)
			}
		})
	}
}

func TestDefaultRangeIsFirst(t *testing.T) {
	if DefaultRange() != AllRanges()[0] {
		t.Errorf("DefaultRange() = %v, want first range %v", DefaultRange(), AllRanges()[0])
	}
}

func TestParseRange_Unknown(t *testing.T) {
	for _, key := range []string{"", "last_year", "LAST_7_DAYS", "last_7_days.json"} {
		if _, err := ParseRange(key); !errors.Is(err, ErrUnknownRange) {
			t.Errorf("ParseRange(%q) error = %v, want ErrUnknownRange", key, err)
		}
	}
}

func TestRangeCycling(t *testing.T) {
	if got := AllTime.Next(); got != Last24Hours {
		t.Errorf("AllTime.Next() = %v, want %v", got, Last24Hours)
	}
	if got := Last24Hours.Prev(); got != AllTime {
		t.Errorf("Last24Hours.Prev() = %v, want %v", got, AllTime)
	}

	r := DefaultRange()
	for range AllRanges() {
		r = r.Next()
	}
	if r != DefaultRange() {
		t.Errorf("cycling through all ranges should come back to %v, got %v", DefaultRange(), r)
	}
}

func TestRangeTextRoundTrip(t *testing.T) {
	var r Range
	if err := r.UnmarshalText([]byte("last_30_days")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if r != Last30Days {
		t.Errorf("UnmarshalText() = %v, want %v", r, Last30Days)
	}

	if err := r.UnmarshalText([]byte("yesterday")); err == nil {
		t.Error("UnmarshalText() should reject unknown keys")
	}

	if _, err := Range(42).MarshalText(); err == nil {
		t.Error("MarshalText() should reject invalid ranges")
	}
}

func TestInvalidRangeAccessors(t *testing.T) {
	r := Range(-1)
	if r.Valid() || r.Key() != "" || r.Label() != "" || r.Suffix() != "" {
		t.Errorf("invalid range should report empty metadata, got %q %q %q", r.Key(), r.Label(), r.Suffix())
	}
	if r.String() != "Range(-1)" {
		t.Errorf("String() = %q, want Range(-1)", r.String())
	}
}
