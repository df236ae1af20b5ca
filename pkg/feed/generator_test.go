package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/feeds"

	"github.com/ghtrending/ghtrending/pkg/trending"
)

func sampleRows() []trending.Row {
	return trending.DeriveAll([]trending.Entry{
		{
			RepoName:        "charmbracelet/bubbletea",
			RepoURL:         "https://github.com/charmbracelet/bubbletea",
			Description:     "A powerful little TUI framework <3",
			Language:        "Go",
			Stars:           120,
			StargazersCount: trending.IntPtr(30000),
			Contributors:    []trending.Contributor{{AvatarURL: "https://avatars.example/1"}},
			Topics:          []string{"tui", "go", "elm", "terminal"},
		},
		{RepoName: "foo/bar", Stars: 5},
	}, trending.Last7Days)
}

func TestGenerate(t *testing.T) {
	g := NewTrendingGenerator(trending.Last7Days)
	items, err := ItemsFromRows(sampleRows(), trending.Last7Days, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ItemsFromRows() error = %v", err)
	}

	feed, err := g.Generate(items, Atom)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := g.ValidateFeed(feed); err != nil {
		t.Errorf("ValidateFeed() error = %v", err)
	}

	if feed.Title != "GitHub Trending - Last 7 days" {
		t.Errorf("feed.Title = %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("feed has %d items, want 2", len(feed.Items))
	}
	if feed.Items[1].Link.Href != "https://github.com/foo/bar" {
		t.Errorf("missing repo_url should fall back to the github.com link, got %q", feed.Items[1].Link.Href)
	}

	if _, err := g.Generate(items, FeedType("json")); err == nil {
		t.Error("Generate() should reject unsupported feed types")
	}
}

func TestRender(t *testing.T) {
	g := NewTrendingGenerator(trending.AllTime)
	items, err := ItemsFromRows(sampleRows(), trending.AllTime, time.Now())
	if err != nil {
		t.Fatalf("ItemsFromRows() error = %v", err)
	}
	feed, err := g.Generate(items, RSS)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		feedType FeedType
		marker   string
	}{
		{Atom, "<feed xmlns=\"http://www.w3.org/2005/Atom\""},
		{RSS, "<rss version=\"2.0\""},
	}

	for _, tt := range tests {
		t.Run(string(tt.feedType), func(t *testing.T) {
			out, err := g.Render(feed, tt.feedType)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.Contains(out, tt.marker) {
				t.Errorf("Render(%s) missing %q", tt.feedType, tt.marker)
			}
			if !strings.Contains(out, "charmbracelet/bubbletea") {
				t.Errorf("Render(%s) missing the first repository", tt.feedType)
			}
		})
	}
}

func TestSaveToFile(t *testing.T) {
	g := NewTrendingGenerator(trending.Last24Hours)
	feed, err := g.Generate([]Item{{Title: "t", Link: "https://github.com/a/b", ID: "id"}}, Atom)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "trending.xml")
	if err := g.SaveToFile(feed, Atom, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "<feed") {
		t.Errorf("saved file is not an Atom feed:\n%s", data)
	}

	if err := g.SaveToFile(feed, FeedType("json"), path); err == nil {
		t.Error("SaveToFile() should reject unsupported feed types")
	}
}

func TestValidateFeed(t *testing.T) {
	g := NewGenerator("title", "description", "https://github.com/trending", "")
	valid := func() *feeds.Feed {
		return &feeds.Feed{
			Title:       "title",
			Link:        &feeds.Link{Href: "https://github.com/trending"},
			Description: "description",
			Items: []*feeds.Item{
				{Title: "item", Link: &feeds.Link{Href: "https://github.com/a/b"}, Id: "a/b"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(f *feeds.Feed) *feeds.Feed
		wantErr bool
	}{
		{"valid", func(f *feeds.Feed) *feeds.Feed { return f }, false},
		{"nil feed", func(f *feeds.Feed) *feeds.Feed { return nil }, true},
		{"empty title", func(f *feeds.Feed) *feeds.Feed { f.Title = ""; return f }, true},
		{"nil link", func(f *feeds.Feed) *feeds.Feed { f.Link = nil; return f }, true},
		{"empty description", func(f *feeds.Feed) *feeds.Feed { f.Description = ""; return f }, true},
		{"no items", func(f *feeds.Feed) *feeds.Feed { f.Items = nil; return f }, false},
		{"item without title", func(f *feeds.Feed) *feeds.Feed { f.Items[0].Title = ""; return f }, true},
		{"item without link", func(f *feeds.Feed) *feeds.Feed { f.Items[0].Link = &feeds.Link{}; return f }, true},
		{"item without id", func(f *feeds.Feed) *feeds.Feed { f.Items[0].Id = ""; return f }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateFeed(tt.mutate(valid()))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFeed() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_EmptyRanking(t *testing.T) {
	g := NewTrendingGenerator(trending.Last7Days)
	items, err := ItemsFromRows(trending.DeriveAll(nil, trending.Last7Days), trending.Last7Days, time.Now())
	if err != nil {
		t.Fatalf("ItemsFromRows() error = %v", err)
	}

	for _, feedType := range []FeedType{Atom, RSS} {
		t.Run(string(feedType), func(t *testing.T) {
			feed, err := g.Generate(items, feedType)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if err := g.ValidateFeed(feed); err != nil {
				t.Errorf("ValidateFeed() error = %v, an empty ranking is a valid feed", err)
			}

			path := filepath.Join(t.TempDir(), "trending.xml")
			if err := g.SaveToFile(feed, feedType, path); err != nil {
				t.Fatalf("SaveToFile() error = %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !strings.Contains(string(data), "GitHub Trending - Last 7 days") {
				t.Errorf("saved feed is missing its title:\n%s", data)
			}

			if meta := g.GetMetadata(feed); meta.ItemCount != 0 || !meta.NewestItem.IsZero() {
				t.Errorf("GetMetadata() = %+v, want no items", meta)
			}
		})
	}
}

func TestGetMetadata(t *testing.T) {
	g := NewTrendingGenerator(trending.Last7Days)
	generatedAt := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	items, err := ItemsFromRows(sampleRows(), trending.Last7Days, generatedAt)
	if err != nil {
		t.Fatalf("ItemsFromRows() error = %v", err)
	}
	feed, err := g.Generate(items, Atom)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	meta := g.GetMetadata(feed)
	if meta.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", meta.ItemCount)
	}
	if !meta.NewestItem.Equal(generatedAt.Add(-time.Second)) {
		t.Errorf("NewestItem = %v, want rank 1 one second before generation", meta.NewestItem)
	}
	if !meta.OldestItem.Equal(generatedAt.Add(-2 * time.Second)) {
		t.Errorf("OldestItem = %v", meta.OldestItem)
	}

	if g.GetMetadata(nil) != nil {
		t.Error("GetMetadata(nil) should return nil")
	}
}
