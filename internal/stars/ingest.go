package stars

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ghtrending/ghtrending/pkg/filesystem"
)

// IngestResult summarizes one ingest run
type IngestResult struct {
	Source   string
	Events   int
	Inserted int
}

// Ingester moves archive star events into the store
type Ingester struct {
	archive *Archive
	store   *Store
	keepDir string
}

// NewIngester creates an ingester. A non-empty keepDir retains downloaded
// dumps there.
func NewIngester(archive *Archive, store *Store, keepDir string) *Ingester {
	return &Ingester{archive: archive, store: store, keepDir: keepDir}
}

// IngestHour downloads and stores the star events of one archive hour
func (in *Ingester) IngestHour(ctx context.Context, hour time.Time) (IngestResult, error) {
	data, err := in.archive.Fetch(ctx, hour)
	if err != nil {
		return IngestResult{}, err
	}

	source := HourURL(in.archive.baseURL, hour)
	if in.keepDir != "" {
		path := filepath.Join(in.keepDir, filepath.Base(source))
		if err := filesystem.WriteFileAtomic(path, data); err != nil {
			return IngestResult{}, fmt.Errorf("failed to keep archive: %w", err)
		}
		slog.Info("Kept archive", "path", path)
	}

	events, err := ParseWatchEvents(bytes.NewReader(data))
	if err != nil {
		return IngestResult{}, err
	}
	return in.store.insert(ctx, source, events)
}

// IngestFile stores the star events of a dump already on disk
func (in *Ingester) IngestFile(ctx context.Context, path string) (IngestResult, error) {
	events, err := ReadFile(path)
	if err != nil {
		return IngestResult{}, err
	}
	return in.store.insert(ctx, path, events)
}

func (s *Store) insert(ctx context.Context, source string, events []StarEvent) (IngestResult, error) {
	inserted, err := s.Insert(ctx, events)
	if err != nil {
		return IngestResult{}, err
	}

	result := IngestResult{Source: source, Events: len(events), Inserted: inserted}
	slog.Info("Ingested star events", "source", source, "events", result.Events, "inserted", result.Inserted)
	return result, nil
}
