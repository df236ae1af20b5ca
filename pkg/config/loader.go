// Package config loads JSON or YAML documents from a local file or a remote
// URL into arbitrary targets.
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	httputil "github.com/ghtrending/ghtrending/pkg/http"
)

// ErrNoSource is returned when neither the remote URL nor the local file
// could be loaded and falling back to the target's defaults is disabled.
var ErrNoSource = errors.New("failed to load configuration from URL and local file")

// LoaderConfig represents configuration loading options
type LoaderConfig struct {
	RemoteURL         string
	LocalPath         string
	Timeout           time.Duration
	MaxRetries        int
	FallbackToDefault bool
}

// DefaultLoaderConfig returns default loader configuration
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Timeout:           10 * time.Second,
		MaxRetries:        3,
		FallbackToDefault: true,
	}
}

// LoadFromURLWithFallback loads configuration from URL with local fallback.
// With FallbackToDefault the target is left untouched when both sources fail.
func LoadFromURLWithFallback(config *LoaderConfig, target any) error {
	if config.RemoteURL != "" {
		err := loadFromURL(config.RemoteURL, config.Timeout, config.MaxRetries, target)
		if err == nil {
			return nil
		}
		slog.Debug("Remote configuration unavailable", "url", config.RemoteURL, "error", err)
	}

	if config.LocalPath != "" {
		err := loadFromFile(config.LocalPath, target)
		if err == nil {
			return nil
		}
		slog.Debug("Local configuration unavailable", "path", config.LocalPath, "error", err)
	}

	if !config.FallbackToDefault {
		return ErrNoSource
	}

	return nil
}

// LoadOrFetch prefers the local file and only fetches remoteURL when the file
// is missing or unreadable. Either may be empty. Both failing is not an error:
// the target keeps whatever defaults the caller put in it.
func LoadOrFetch(localPath, remoteURL string, target any) error {
	if localPath != "" {
		err := loadFromFile(localPath, target)
		if err == nil {
			slog.Debug("Loaded configuration from file", "path", localPath)
			return nil
		}
		slog.Debug("Local configuration unavailable", "path", localPath, "error", err)
	}

	config := DefaultLoaderConfig()
	config.RemoteURL = remoteURL
	return LoadFromURLWithFallback(config, target)
}

// loadFromURL fetches and decodes a remote document
func loadFromURL(url string, timeout time.Duration, maxRetries int, target any) error {
	httpConfig := httputil.DefaultConfig()
	httpConfig.Timeout = timeout
	httpConfig.MaxRetries = maxRetries

	client := httputil.NewClient(httpConfig)
	resp, err := client.GetWithContext(context.Background(), url, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch config from URL: %w", err)
	}

	if err := httputil.EnsureStatusOK(resp); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("HTTP error fetching config: %w", err)
	}

	data, err := httputil.ReadResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read config response: %w", err)
	}

	if err := decode(detectFormat(url, data), data, target); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	return nil
}

// loadFromFile loads configuration from a local file
func loadFromFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return decode(detectFormat(path, data), data, target)
}

func decode(format string, data []byte, target any) error {
	switch format {
	case "json":
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return nil
}

// detectFormat returns "json" or "yaml". The extension wins; otherwise a
// leading '{' or '[' means JSON.
func detectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "yaml"
}
