package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ghtrending/ghtrending/internal/config"
	"github.com/ghtrending/ghtrending/internal/server"
	"github.com/ghtrending/ghtrending/internal/stars"
	"github.com/ghtrending/ghtrending/pkg/database"
	"github.com/ghtrending/ghtrending/pkg/feed"
	httputil "github.com/ghtrending/ghtrending/pkg/http"
	"github.com/ghtrending/ghtrending/pkg/langcolor"
	"github.com/ghtrending/ghtrending/pkg/preview"
	"github.com/ghtrending/ghtrending/pkg/trending"
	"github.com/ghtrending/ghtrending/pkg/viewmodel"
)

// archiveTimeout allows for hourly dumps of a few hundred megabytes
const archiveTimeout = 10 * time.Minute

func resolveRange(flag string, cfg *config.Config) (trending.Range, error) {
	if flag == "" {
		return cfg.DefaultRange(), nil
	}
	return trending.ParseRange(flag)
}

func newFeedClient(cfg *config.Config, baseURL string) (*trending.Client, error) {
	clientConfig := trending.ClientConfig{
		BaseURL: cfg.Feed.BaseURL,
		Path:    cfg.Feed.Path,
		Suffix:  cfg.Feed.Suffix,
	}
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return trending.NewClient(clientConfig, nil)
}

func runList(ctx context.Context, cfg *config.Config) error {
	r, err := resolveRange(CLI.List.Range, cfg)
	if err != nil {
		return err
	}
	client, err := newFeedClient(cfg, CLI.List.BaseURL)
	if err != nil {
		return err
	}

	vm := viewmodel.New(client, viewmodel.WithRange(r))
	defer vm.Close()

	if err := vm.Load(ctx, r); err != nil {
		return err
	}

	snap := vm.Snapshot()
	rows := trending.DeriveTop(snap.Entries, snap.LoadedRange, CLI.List.Limit)

	fmt.Printf("GitHub Trending - %s\n\n", r.Label())
	if len(rows) == 0 {
		fmt.Println("No repositories.")
		return nil
	}
	for _, row := range rows {
		fmt.Println(preview.FormatCompactRow(row))
	}

	summary := trending.Summarize(snap.Entries)
	fmt.Printf("\n%d repositories, %d stars %s (mean %.1f, median %.1f)\n",
		summary.Count, summary.TotalStars, r.Suffix(), summary.MeanStars, summary.MedianStars)
	if len(summary.TopLanguages) > 0 {
		langs := make([]string, 0, len(summary.TopLanguages))
		for _, lc := range summary.TopLanguages {
			langs = append(langs, fmt.Sprintf("%s (%d)", lc.Label, lc.Count))
		}
		fmt.Printf("Top languages: %s\n", strings.Join(langs, ", "))
	}
	return nil
}

func runBrowse(ctx context.Context, cfg *config.Config) error {
	r, err := resolveRange(CLI.Browse.Range, cfg)
	if err != nil {
		return err
	}
	client, err := newFeedClient(cfg, CLI.Browse.BaseURL)
	if err != nil {
		return err
	}

	colors, err := langcolor.Load(cfg.Languages.ColorsPath, cfg.Languages.ColorsURL)
	if err != nil {
		return err
	}

	vm := viewmodel.New(client, viewmodel.WithRange(r))
	return preview.Run(ctx, vm, colors)
}

func runExport(ctx context.Context, cfg *config.Config) error {
	r, err := resolveRange(CLI.Export.Range, cfg)
	if err != nil {
		return err
	}
	feedType, err := feed.ParseFeedType(CLI.Export.Format)
	if err != nil {
		return err
	}
	client, err := newFeedClient(cfg, CLI.Export.BaseURL)
	if err != nil {
		return err
	}

	entries, err := client.FetchTrending(ctx, r)
	if err != nil {
		return err
	}

	items, err := feed.ItemsFromRows(trending.DeriveAll(entries, r), r, time.Now())
	if err != nil {
		return err
	}

	generator := feed.NewTrendingGenerator(r)
	f, err := generator.Generate(items, feedType)
	if err != nil {
		return err
	}
	if err := generator.ValidateFeed(f); err != nil {
		return fmt.Errorf("refusing to write invalid feed: %w", err)
	}
	if err := generator.SaveToFile(f, feedType, CLI.Export.Outfile); err != nil {
		return err
	}

	meta := generator.GetMetadata(f)
	slog.Info("Exported feed", "range", r, "type", feedType, "items", meta.ItemCount, "path", CLI.Export.Outfile)
	fmt.Printf("Wrote %d entries to %s\n", meta.ItemCount, CLI.Export.Outfile)
	return nil
}

func openStore(cfg *config.Config) (*stars.Store, func(), error) {
	db, err := database.NewDatabase(database.Config{
		Driver: cfg.Store.Driver,
		DSN:    cfg.Store.DSN,
	})
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}

	store, err := stars.NewStore(db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}

func runIngest(ctx context.Context, cfg *config.Config) error {
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	httpConfig := httputil.DefaultConfig()
	httpConfig.Timeout = archiveTimeout
	archive := stars.NewArchive(cfg.Ingest.ArchiveURL, httputil.NewClient(httpConfig))
	ingester := stars.NewIngester(archive, store, CLI.Ingest.Keep)

	var result stars.IngestResult
	if CLI.Ingest.File != "" {
		result, err = ingester.IngestFile(ctx, CLI.Ingest.File)
	} else {
		hour := stars.DefaultHour(time.Now(), cfg.Ingest.HoursAgo)
		if CLI.Ingest.Hour != "" {
			if hour, err = stars.ParseHour(CLI.Ingest.Hour); err != nil {
				return err
			}
		}
		result, err = ingester.IngestHour(ctx, hour)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d star events, %d new\n", result.Source, result.Events, result.Inserted)
	return nil
}

// githubToken reads the enrichment token. GITHUB_TOKEN wins over GH_TOKEN.
func githubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}

func runPublish(ctx context.Context, cfg *config.Config) error {
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	token := githubToken()
	if token == "" {
		slog.Warn("No GITHUB_TOKEN set, GitHub lookups are anonymous and heavily rate limited")
	}
	gh, err := stars.NewGitHubClient(token)
	if err != nil {
		return err
	}

	outDir := cfg.Publish.OutputDir
	if CLI.Publish.Out != "" {
		outDir = CLI.Publish.Out
	}

	enricher := stars.NewGitHubEnricher(gh, cfg.Publish.Contributors, cfg.Publish.Concurrency)
	publisher := stars.NewPublisher(store, enricher, outDir, cfg.Publish.Limit)

	paths, err := publisher.PublishAll(ctx)
	for _, path := range paths {
		fmt.Println(path)
	}
	return err
}

func runServe(ctx context.Context, cfg *config.Config) error {
	serverConfig := server.Config{
		Addr:         cfg.Server.Addr,
		DataDir:      cfg.Server.DataDir,
		AllowOrigins: cfg.Server.AllowOrigins,
		CacheMaxAge:  cfg.Server.CacheMaxAge,
	}
	if CLI.Serve.Addr != "" {
		serverConfig.Addr = CLI.Serve.Addr
	}
	if CLI.Serve.DataDir != "" {
		serverConfig.DataDir = CLI.Serve.DataDir
	}

	return server.New(serverConfig).Run(ctx)
}

func runInitConfig(cfg *config.Config) error {
	path := config.ResolvePath(CLI.Config)
	if _, err := os.Stat(path); err == nil && !CLI.InitConfig.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
