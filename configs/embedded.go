// Package configs provides embedded data files for ghtrending.
package configs

import "embed"

// LanguageColorsFile is the linguist-style language colour table
const LanguageColorsFile = "language-colors.json"

// EmbeddedConfigs exposes embedded data files for read-only access.
//
//go:embed *.json
var EmbeddedConfigs embed.FS
