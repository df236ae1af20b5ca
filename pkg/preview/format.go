// Package preview provides the interactive trending list using Bubble Tea TUI.
package preview

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ghtrending/ghtrending/pkg/trending"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := utf8.RuneCountInString(word)

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// truncate shortens s to at most width runes, ending with "..."
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

// formatCount renders large counters the way GitHub does: 950, 1.2k, 34k, 1.5m
func formatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1000), ".0") + "k"
	case n < 1_000_000:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000_000), ".0") + "m"
	}
}

// FormatStars renders the star delta with its range suffix, e.g. "★ 120 this week"
func FormatStars(row trending.Row) string {
	return fmt.Sprintf("★ %s %s", formatCount(row.Stars), row.StarsSuffix)
}

// FormatCompactRow formats a row on a single line for plain output
// Example: " 1. charmbracelet/bubbletea  [Go]  ★ 120 this week  A powerful little TUI framework"
func FormatCompactRow(row trending.Row) string {
	const maxDescriptionLength = 60

	line := fmt.Sprintf("%2d. %s  [%s]  %s", row.Rank, row.RepoName, row.LanguageLabel, FormatStars(row))
	if row.Description != "" {
		line += "  " + truncate(row.Description, maxDescriptionLength)
	}
	return line
}

// FormatDetailedRow formats a row with all metadata
func FormatDetailedRow(row trending.Row) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Repository: %s\n", row.RepoName)
	if row.Owner != "" {
		fmt.Fprintf(&b, "Owner: %s\n", row.Owner)
	}
	if row.URL != "" {
		fmt.Fprintf(&b, "Link: %s\n", row.URL)
	}
	fmt.Fprintf(&b, "Rank: #%d\n", row.Rank)
	fmt.Fprintf(&b, "Language: %s\n", row.LanguageLabel)
	fmt.Fprintf(&b, "Stars: %d %s\n", row.Stars, row.StarsSuffix)

	var counters []string
	if row.Stargazers != nil {
		counters = append(counters, fmt.Sprintf("Stargazers: %s", formatCount(*row.Stargazers)))
	}
	if row.Forks != nil {
		counters = append(counters, fmt.Sprintf("Forks: %s", formatCount(*row.Forks)))
	}
	if row.OpenIssues != nil {
		counters = append(counters, fmt.Sprintf("Open issues: %s", formatCount(*row.OpenIssues)))
	}
	if len(counters) > 0 {
		b.WriteString(strings.Join(counters, " | "))
		b.WriteString("\n")
	}

	if len(row.VisibleTopics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(row.VisibleTopics, ", "))
	}

	if row.HasContributors {
		fmt.Fprintf(&b, "Contributors: %d shown\n", len(row.AvatarURLs))
	}

	if row.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", wrapText(row.Description, 70))
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}
