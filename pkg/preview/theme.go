package preview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ghtrending/ghtrending/pkg/viewmodel"
)

// Styles groups every lipgloss style the TUI renders with
type Styles struct {
	Header      lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	RepoName    lipgloss.Style
	Selected    lipgloss.Style
	Description lipgloss.Style
	Stars       lipgloss.Style
	Topic       lipgloss.Style
	Row         lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
	Spinner     lipgloss.Style
}

type palette struct {
	accent     lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	border     lipgloss.Color
	topicFg    lipgloss.Color
	topicBg    lipgloss.Color
	selectedBg lipgloss.Color
	errorFg    lipgloss.Color
	starsFg    lipgloss.Color
}

var (
	darkPalette = palette{
		accent:     lipgloss.Color("#58a6ff"),
		text:       lipgloss.Color("#c9d1d9"),
		muted:      lipgloss.Color("#8b949e"),
		border:     lipgloss.Color("#30363d"),
		topicFg:    lipgloss.Color("#58a6ff"),
		topicBg:    lipgloss.Color("#121d2f"),
		selectedBg: lipgloss.Color("#161b22"),
		errorFg:    lipgloss.Color("#f85149"),
		starsFg:    lipgloss.Color("#e3b341"),
	}

	lightPalette = palette{
		accent:     lipgloss.Color("#0969da"),
		text:       lipgloss.Color("#24292f"),
		muted:      lipgloss.Color("#57606a"),
		border:     lipgloss.Color("#d0d7de"),
		topicFg:    lipgloss.Color("#0969da"),
		topicBg:    lipgloss.Color("#ddf4ff"),
		selectedBg: lipgloss.Color("#f6f8fa"),
		errorFg:    lipgloss.Color("#cf222e"),
		starsFg:    lipgloss.Color("#9a6700"),
	}
)

// StylesFor builds the styles of a theme
func StylesFor(theme viewmodel.Theme) Styles {
	p := darkPalette
	if theme == viewmodel.Light {
		p = lightPalette
	}

	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Tab:         lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true).Padding(0, 1),
		RepoName:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Selected:    lipgloss.NewStyle().Background(p.selectedBg),
		Description: lipgloss.NewStyle().Foreground(p.text),
		Stars:       lipgloss.NewStyle().Foreground(p.starsFg),
		Topic:       lipgloss.NewStyle().Foreground(p.topicFg).Background(p.topicBg).Padding(0, 1),
		Row: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			BorderTop(false).BorderLeft(false).BorderRight(false),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(p.errorFg),
		Muted:   lipgloss.NewStyle().Foreground(p.muted),
		Spinner: lipgloss.NewStyle().Foreground(p.accent),
	}
}
