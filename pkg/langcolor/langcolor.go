// Package langcolor maps repository languages to the colours GitHub uses for
// them. The table ships embedded and can be overridden from a file or URL.
package langcolor

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ghtrending/ghtrending/configs"
	"github.com/ghtrending/ghtrending/pkg/config"
)

// DefaultColor is used for unknown languages and languages without a colour
const DefaultColor = "#808080"

// Language is one linguist entry. Color is nil when linguist has no colour.
type Language struct {
	Color *string `json:"color" yaml:"color"`
	URL   string  `json:"url,omitempty" yaml:"url,omitempty"`
}

// Table is an immutable language colour lookup
type Table struct {
	languages map[string]Language
}

// Parse decodes a linguist-style JSON table
func Parse(data []byte) (*Table, error) {
	var languages map[string]Language
	if err := json.Unmarshal(data, &languages); err != nil {
		return nil, fmt.Errorf("failed to parse language colours: %w", err)
	}
	return &Table{languages: languages}, nil
}

// Embedded returns the table compiled into the binary
func Embedded() (*Table, error) {
	data, err := configs.EmbeddedConfigs.ReadFile(configs.LanguageColorsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded language colours: %w", err)
	}
	return Parse(data)
}

// Load returns the embedded table with entries from localPath or remoteURL
// layered on top. Override failures are logged and the embedded table is
// used as is.
func Load(localPath, remoteURL string) (*Table, error) {
	table, err := Embedded()
	if err != nil {
		return nil, err
	}

	if localPath == "" && remoteURL == "" {
		return table, nil
	}

	var overrides map[string]Language
	if err := config.LoadOrFetch(localPath, remoteURL, &overrides); err != nil || len(overrides) == 0 {
		slog.Warn("Using embedded language colours", "path", localPath, "url", remoteURL, "error", err)
		return table, nil
	}

	return table.With(overrides), nil
}

// With returns a copy of t with overrides applied
func (t *Table) With(overrides map[string]Language) *Table {
	merged := make(map[string]Language, t.Len()+len(overrides))
	if t != nil {
		for name, lang := range t.languages {
			merged[name] = lang
		}
	}
	for name, lang := range overrides {
		merged[name] = lang
	}
	return &Table{languages: merged}
}

// Color returns the hex colour for language, or DefaultColor when the
// language is unknown or has no colour.
func (t *Table) Color(language string) string {
	if t == nil || language == "" {
		return DefaultColor
	}

	lang, ok := t.languages[language]
	if !ok {
		return DefaultColor
	}
	if lang.Color == nil || *lang.Color == "" {
		return DefaultColor
	}
	return *lang.Color
}

// Len returns the number of known languages
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.languages)
}
