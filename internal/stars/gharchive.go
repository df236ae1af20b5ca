package stars

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	httputil "github.com/ghtrending/ghtrending/pkg/http"
)

// DefaultArchiveURL is the public GH Archive endpoint
const DefaultArchiveURL = "https://data.gharchive.org"

// HourLayout is the --hour flag format, e.g. 2026-10-16-08
const HourLayout = "2006-01-02-15"

// maxLineSize caps a single archive line. Push events with large payloads
// exceed bufio's default.
const maxLineSize = 16 * 1024 * 1024

var watchEventMarker = []byte(`"WatchEvent"`)

// StarEvent is a single WatchEvent from the archive
type StarEvent struct {
	ID         string
	ActorID    int64
	ActorLogin string
	RepoID     int64
	RepoName   string
	CreatedAt  time.Time
}

// archiveEvent is the subset of a GH Archive event we read
type archiveEvent struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Actor struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	} `json:"actor"`
	Repo struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive downloads hourly GH Archive dumps
type Archive struct {
	baseURL string
	client  *httputil.Client
}

// NewArchive creates an archive reader. An empty baseURL uses the public endpoint.
func NewArchive(baseURL string, client *httputil.Client) *Archive {
	if baseURL == "" {
		baseURL = DefaultArchiveURL
	}
	if client == nil {
		client = httputil.NewClient(nil)
	}
	return &Archive{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// HourURL returns the dump URL for the hour containing t. GH Archive names
// hours without a leading zero.
func HourURL(baseURL string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%s-%d.json.gz", strings.TrimRight(baseURL, "/"), t.Format("2006-01-02"), t.Hour())
}

// ParseHour parses an hour in HourLayout as UTC
func ParseHour(s string) (time.Time, error) {
	t, err := time.ParseInLocation(HourLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour %q, expected YYYY-MM-DD-HH: %w", s, err)
	}
	return t, nil
}

// DefaultHour is the archive hour hoursAgo before now. Recent hours are
// published with a delay.
func DefaultHour(now time.Time, hoursAgo int) time.Time {
	return now.UTC().Add(-time.Duration(hoursAgo) * time.Hour).Truncate(time.Hour)
}

// Fetch downloads the gzipped dump for hour
func (a *Archive) Fetch(ctx context.Context, hour time.Time) ([]byte, error) {
	url := HourURL(a.baseURL, hour)
	slog.Debug("Downloading archive hour", "url", url)

	resp, err := a.client.GetWithContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}

	if err := httputil.EnsureStatusOK(resp); err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}

	data, err := httputil.ReadResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	slog.Debug("Downloaded archive hour", "url", url, "bytes", len(data))
	return data, nil
}

// ReadFile parses a gzipped dump from disk
func ReadFile(path string) ([]StarEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseWatchEvents(f)
}

// ParseWatchEvents reads gzipped JSON lines and returns the WatchEvents in
// file order. Malformed lines are skipped.
func ParseWatchEvents(r io.Reader) ([]StarEvent, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []StarEvent
	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if !bytes.Contains(line, watchEventMarker) {
			continue
		}

		var ev archiveEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			slog.Warn("Skipping malformed archive line", "line", lineNo, "error", err)
			skipped++
			continue
		}
		if ev.Type != "WatchEvent" {
			continue
		}
		if ev.ID == "" || ev.Repo.Name == "" {
			slog.Warn("Skipping incomplete WatchEvent", "line", lineNo, "id", ev.ID)
			skipped++
			continue
		}

		events = append(events, StarEvent{
			ID:         ev.ID,
			ActorID:    ev.Actor.ID,
			ActorLogin: ev.Actor.Login,
			RepoID:     ev.Repo.ID,
			RepoName:   ev.Repo.Name,
			CreatedAt:  ev.CreatedAt.UTC(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	slog.Debug("Parsed archive", "lines", lineNo, "watchEvents", len(events), "skipped", skipped)
	return events, nil
}
