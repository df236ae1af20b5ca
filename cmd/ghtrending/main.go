// Package main provides the CLI entry point for ghtrending.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/ghtrending/ghtrending/internal/config"
	"github.com/ghtrending/ghtrending/pkg/filesystem"
)

// CLI structure. Flags left empty fall back to the configuration file.
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	List struct {
		Range   string `help:"Range to list (last_24_hours, last_7_days, last_30_days, all_time)" short:"r"`
		Limit   int    `help:"Maximum number of rows to print, 0 for all" short:"n" default:"0"`
		BaseURL string `help:"Trending data service base URL"`
	} `cmd:"list" help:"Print the trending repositories of a range."`

	Browse struct {
		Range   string `help:"Initially selected range" short:"r"`
		BaseURL string `help:"Trending data service base URL"`
	} `cmd:"browse" help:"Browse trending repositories interactively."`

	Export struct {
		Range   string `help:"Range to export" short:"r"`
		Format  string `help:"Feed format" enum:"atom,rss" default:"atom"`
		Outfile string `help:"Output file path" short:"o" default:"trending.xml"`
		BaseURL string `help:"Trending data service base URL"`
	} `cmd:"export" help:"Write an Atom or RSS feed of a trending range."`

	Ingest struct {
		Hour string `help:"Archive hour to ingest as YYYY-MM-DD-HH (UTC)"`
		File string `help:"Ingest a downloaded archive file instead" type:"existingfile"`
		Keep string `help:"Keep the downloaded archive in this directory"`
	} `cmd:"ingest" help:"Store the star events of one GH Archive hour."`

	Publish struct {
		Out string `help:"Output directory" short:"o"`
	} `cmd:"publish" help:"Rank, enrich and write the trending documents."`

	Serve struct {
		Addr    string `help:"Listen address"`
		DataDir string `help:"Directory holding the published documents"`
	} `cmd:"serve" help:"Serve the published trending documents."`

	InitConfig struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"init-config" help:"Write a configuration file with the current settings."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name("ghtrending"),
		kong.Description("GitHub trending repositories: browse, export and publish."),
		kong.UsageOnError(),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "path", CLI.Config, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch kctx.Command() {
	case "list":
		runErr = runList(ctx, cfg)
	case "browse":
		closeLog := redirectLogging(CLI.Debug)
		runErr = runBrowse(ctx, cfg)
		closeLog()
	case "export":
		runErr = runExport(ctx, cfg)
	case "ingest":
		runErr = runIngest(ctx, cfg)
	case "publish":
		runErr = runPublish(ctx, cfg)
	case "serve":
		runErr = runServe(ctx, cfg)
	case "init-config":
		runErr = runInitConfig(cfg)
	default:
		panic(kctx.Command())
	}

	if runErr != nil {
		slog.Error("Command failed", "command", kctx.Command(), "error", runErr)
		stop()
		os.Exit(1)
	}
}

// redirectLogging keeps log output off the terminal the TUI draws on. With
// debug enabled logs go to a file in the user config directory.
func redirectLogging(debug bool) func() {
	if !debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}

	path, err := filesystem.UserConfigPath("ghtrending.log")
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { _ = f.Close() }
}
