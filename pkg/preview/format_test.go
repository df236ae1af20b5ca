package preview

import (
	"strings"
	"testing"

	"github.com/ghtrending/ghtrending/pkg/trending"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "hello world", 20, "hello world"},
		{"wraps at word boundary", "one two three four", 9, "one two\nthree\nfour"},
		{"long word stays whole", "supercalifragilistic ok", 5, "supercalifragilistic\nok"},
		{"collapses whitespace", "  a   b  ", 10, "a b"},
		{"empty", "", 10, ""},
		{"default width", strings.Repeat("x ", 40), 0, strings.TrimSpace(strings.Repeat("x ", 35)) + "\n" + strings.TrimSpace(strings.Repeat("x ", 5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.text, tt.width); got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer description", 10, "a longe..."},
		{"ünïcödé text", 6, "ünï..."},
		{"abc", 2, "ab"},
		{"anything", 0, "anything"},
	}

	for _, tt := range tests {
		if got := truncate(tt.s, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1k"},
		{1234, "1.2k"},
		{34567, "34k"},
		{1_000_000, "1m"},
		{2_500_000, "2.5m"},
	}

	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatCompactRow(t *testing.T) {
	row := trending.Derive(trending.Entry{
		RepoName:    "foo/bar",
		Stars:       5,
		Description: strings.Repeat("d", 100),
	}, 0, 1, trending.Last7Days)

	got := FormatCompactRow(row)

	if !strings.HasPrefix(got, " 1. foo/bar  [Other]  ★ 5 this week") {
		t.Errorf("FormatCompactRow() = %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("FormatCompactRow() should truncate long descriptions, got %q", got)
	}
}

func TestFormatDetailedRow(t *testing.T) {
	row := trending.Derive(trending.Entry{
		RepoName:        "charmbracelet/bubbletea",
		RepoURL:         "https://github.com/charmbracelet/bubbletea",
		Description:     "A powerful little TUI framework",
		Language:        "Go",
		Stars:           120,
		StargazersCount: trending.IntPtr(30000),
		ForksCount:      trending.IntPtr(0),
		Contributors:    []trending.Contributor{{AvatarURL: "https://avatars.example/1"}},
		Topics:          []string{"tui", "go", "elm", "terminal"},
	}, 2, 10, trending.Last24Hours)

	got := FormatDetailedRow(row)

	for _, want := range []string{
		"Repository: charmbracelet/bubbletea",
		"Owner: charmbracelet",
		"Link: https://github.com/charmbracelet/bubbletea",
		"Rank: #3",
		"Language: Go",
		"Stars: 120 today",
		"Stargazers: 30k | Forks: 0",
		"Topics: tui, go, elm\n",
		"Contributors: 1 shown",
		"A powerful little TUI framework",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatDetailedRow() missing %q in:\n%s", want, got)
		}
	}

	if strings.Contains(got, "Open issues") {
		t.Error("FormatDetailedRow() should omit counters the feed did not provide")
	}
}

func TestFormatDetailedRow_Minimal(t *testing.T) {
	got := FormatDetailedRow(trending.Derive(trending.Entry{RepoName: "lonely"}, 0, 1, trending.AllTime))

	if strings.Contains(got, "Owner:") {
		t.Errorf("FormatDetailedRow() should omit an empty owner:\n%s", got)
	}
	if !strings.Contains(got, "Language: Other") || !strings.Contains(got, "Stars: 0 all time") {
		t.Errorf("FormatDetailedRow() = \n%s", got)
	}
	if strings.Contains(got, "Topics:") || strings.Contains(got, "Contributors:") {
		t.Errorf("FormatDetailedRow() should omit empty sections:\n%s", got)
	}
}
