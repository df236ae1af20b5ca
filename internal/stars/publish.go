package stars

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ghtrending/ghtrending/pkg/filesystem"
	"github.com/ghtrending/ghtrending/pkg/trending"
)

// Ranker returns the most starred repositories within a window
type Ranker interface {
	MostStarred(ctx context.Context, window time.Duration, limit int, now time.Time) ([]RepoCount, error)
}

// DocumentPath is where the document for r lives under root
func DocumentPath(root string, r trending.Range) string {
	return filepath.Join(root, filepath.FromSlash(trending.DefaultPath), r.Key()+trending.DefaultSuffix)
}

// Publisher writes one trending document per range
type Publisher struct {
	ranker   Ranker
	enricher Enricher
	outDir   string
	limit    int
	now      func() time.Time
}

// PublisherOption configures a Publisher
type PublisherOption func(*Publisher)

// WithClock overrides the reference time for ranking windows
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		p.now = now
	}
}

// NewPublisher creates a publisher writing up to limit entries per range
// under outDir.
func NewPublisher(ranker Ranker, enricher Enricher, outDir string, limit int, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		ranker:   ranker,
		enricher: enricher,
		outDir:   outDir,
		limit:    limit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishRange ranks, enriches and writes the document for r. Returns the
// written path.
func (p *Publisher) PublishRange(ctx context.Context, r trending.Range) (string, error) {
	if !r.Valid() {
		return "", fmt.Errorf("%w: %d", trending.ErrUnknownRange, int(r))
	}

	counts, err := p.ranker.MostStarred(ctx, r.Window(), p.limit, p.now())
	if err != nil {
		return "", fmt.Errorf("failed to rank %s: %w", r, err)
	}

	entries, err := p.enricher.Enrich(ctx, counts)
	if err != nil {
		return "", fmt.Errorf("failed to enrich %s: %w", r, err)
	}
	if entries == nil {
		entries = []trending.Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", r, err)
	}

	path := DocumentPath(p.outDir, r)
	if err := filesystem.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", r, err)
	}

	slog.Info("Published trending document", "range", r, "path", path, "count", len(entries))
	return path, nil
}

// PublishAll publishes every range, stopping at the first failure
func (p *Publisher) PublishAll(ctx context.Context) ([]string, error) {
	paths := make([]string, 0, len(trending.AllRanges()))
	for _, r := range trending.AllRanges() {
		path, err := p.PublishRange(ctx, r)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
