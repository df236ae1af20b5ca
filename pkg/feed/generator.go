package feed

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/feeds"

	"github.com/ghtrending/ghtrending/pkg/filesystem"
)

// Generate creates a feed from the provided items
func (g *Generator) Generate(items []Item, feedType FeedType) (*feeds.Feed, error) {
	if feedType != RSS && feedType != Atom {
		return nil, fmt.Errorf("unsupported feed type: %s", feedType)
	}

	now := time.Now()
	feed := &feeds.Feed{
		Title:       g.Title,
		Link:        &feeds.Link{Href: g.Link},
		Description: g.Description,
		Author:      &feeds.Author{Name: g.Author},
		Created:     now,
		Updated:     now,
	}

	for _, item := range items {
		feedItem := &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: item.Description,
			Content:     item.Content,
			Created:     item.Created,
			Id:          item.ID,
		}
		if item.Author != "" {
			feedItem.Author = &feeds.Author{Name: item.Author}
		}

		feed.Items = append(feed.Items, feedItem)
	}

	slog.Debug("Generated feed", "type", feedType, "items", len(feed.Items))
	return feed, nil
}

// Render serializes the feed as RSS or Atom XML
func (g *Generator) Render(feed *feeds.Feed, feedType FeedType) (string, error) {
	var (
		out string
		err error
	)

	switch feedType {
	case RSS:
		out, err = feed.ToRss()
	case Atom:
		out, err = feed.ToAtom()
	default:
		return "", fmt.Errorf("unsupported feed type: %s", feedType)
	}

	if err != nil {
		return "", fmt.Errorf("failed to write %s feed: %w", feedType, err)
	}
	return out, nil
}

// SaveToFile saves the generated feed to a specified file
func (g *Generator) SaveToFile(feed *feeds.Feed, feedType FeedType, outputPath string) error {
	out, err := g.Render(feed, feedType)
	if err != nil {
		return err
	}

	if err := filesystem.WriteFileAtomic(outputPath, []byte(out)); err != nil {
		return fmt.Errorf("failed to save feed: %w", err)
	}

	slog.Info("Feed saved successfully", "type", feedType, "path", outputPath, "items", len(feed.Items))
	return nil
}

// ValidateFeed validates the generated feed structure
func (g *Generator) ValidateFeed(feed *feeds.Feed) error {
	if feed == nil {
		return fmt.Errorf("feed is nil")
	}

	if feed.Title == "" {
		return fmt.Errorf("feed title is empty")
	}

	if feed.Link == nil || feed.Link.Href == "" {
		return fmt.Errorf("feed link is empty")
	}

	if feed.Description == "" {
		return fmt.Errorf("feed description is empty")
	}

	for i, item := range feed.Items {
		if err := g.validateFeedItem(item); err != nil {
			return fmt.Errorf("item %d validation failed: %w", i, err)
		}
	}

	return nil
}

// validateFeedItem validates individual feed items
func (g *Generator) validateFeedItem(item *feeds.Item) error {
	if item.Title == "" {
		return fmt.Errorf("item title is empty")
	}

	if item.Link == nil || item.Link.Href == "" {
		return fmt.Errorf("item link is empty")
	}

	if item.Id == "" {
		return fmt.Errorf("item ID is empty")
	}

	return nil
}

// GetMetadata returns metadata about the generated feed
func (g *Generator) GetMetadata(feed *feeds.Feed) *Metadata {
	if feed == nil {
		return nil
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Description: feed.Description,
		ItemCount:   len(feed.Items),
		Created:     feed.Created,
		Updated:     feed.Updated,
	}

	if len(feed.Items) > 0 {
		oldest := feed.Items[0].Created
		newest := feed.Items[0].Created

		for _, item := range feed.Items {
			if item.Created.Before(oldest) {
				oldest = item.Created
			}
			if item.Created.After(newest) {
				newest = item.Created
			}
		}

		metadata.OldestItem = oldest
		metadata.NewestItem = newest
	}

	return metadata
}
