package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghtrending/ghtrending/pkg/langcolor"
	"github.com/ghtrending/ghtrending/pkg/trending"
	"github.com/ghtrending/ghtrending/pkg/viewmodel"
)

// ViewMode represents the current view mode
type ViewMode int

// View modes for the preview TUI
const (
	ListViewMode ViewMode = iota
	DetailViewMode
)

// FailureMessage is shown when the feed could not be fetched
const FailureMessage = "Could not load trending repositories"

const (
	defaultWidth = 80
	rowHeight    = 4 // title, description, topics, border
)

// loadedMsg reports that a ticket finished. Applied is false for superseded
// tickets.
type loadedMsg struct {
	ticket  viewmodel.Ticket
	applied bool
}

// Model represents the Bubble Tea model for the trending TUI
type Model struct {
	ctx      context.Context
	vm       *viewmodel.Model
	colors   *langcolor.Table
	spinner  spinner.Model
	cursor   int
	viewMode ViewMode
	width    int
	height   int
}

// NewModel creates a new preview model around a view model
func NewModel(ctx context.Context, vm *viewmodel.Model, colors *langcolor.Table) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylesFor(vm.Theme()).Spinner

	return Model{
		ctx:      ctx,
		vm:       vm,
		colors:   colors,
		spinner:  s,
		viewMode: ListViewMode,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.vm.Selected()))
}

// load selects r on the view model and returns the command that fetches it
func (m Model) load(r trending.Range) tea.Cmd {
	ticket := m.vm.Select(m.ctx, r)
	vm := m.vm
	return func() tea.Msg {
		return loadedMsg{ticket: ticket, applied: vm.Run(ticket)}
	}
}

// reload restarts the spinner and fetches r
func (m Model) reload(r trending.Range) (Model, tea.Cmd) {
	m.cursor = 0
	m.viewMode = ListViewMode
	return m, tea.Batch(m.load(r), m.spinner.Tick)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.vm.Snapshot().State != viewmodel.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.applied {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ListViewMode:
			return m.updateListView(msg)
		case DetailViewMode:
			return m.updateDetailView(msg)
		}
	}

	return m, nil
}

// updateListView handles key presses in list view mode
func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.vm.VisibleEntries()

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.vm.Close()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case "enter":
		if len(rows) > 0 {
			m.viewMode = DetailViewMode
		}

	case "1", "2", "3", "4":
		ranges := trending.AllRanges()
		return m.reload(ranges[int(key[0]-'1')])

	case "tab":
		return m.reload(m.vm.Selected().Next())

	case "shift+tab":
		return m.reload(m.vm.Selected().Prev())

	case "r":
		return m.reload(m.vm.Selected())

	case "t":
		m.toggleTheme()
	}

	return m, nil
}

// updateDetailView handles key presses in detail view mode
func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.vm.Close()
		return m, tea.Quit

	case "esc", "backspace":
		m.viewMode = ListViewMode

	case "t":
		m.toggleTheme()
	}

	return m, nil
}

func (m *Model) toggleTheme() {
	theme := m.vm.ToggleTheme()
	m.spinner.Style = StylesFor(theme).Spinner
}

// View implements tea.Model
func (m Model) View() string {
	styles := StylesFor(m.vm.Theme())

	switch m.viewMode {
	case DetailViewMode:
		return m.renderDetailView(styles)
	default:
		return m.renderListView(styles)
	}
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// renderTabs renders the range selector with the selected range highlighted
func (m Model) renderTabs(styles Styles) string {
	selected := m.vm.Selected()

	var tabs []string
	for i, r := range trending.AllRanges() {
		label := fmt.Sprintf("%d %s", i+1, r.Label())
		if r == selected {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderListView renders the list view
func (m Model) renderListView(styles Styles) string {
	var b strings.Builder

	snap := m.vm.Snapshot()
	rows := m.vm.VisibleEntries()

	header := "GitHub Trending"
	if snap.State == viewmodel.Loaded {
		header = fmt.Sprintf("GitHub Trending - %s (%d repositories)", snap.LoadedRange.Label(), len(rows))
	}
	b.WriteString(styles.Header.Render(header))
	b.WriteString("\n")
	b.WriteString(m.renderTabs(styles))
	b.WriteString("\n\n")

	switch snap.State {
	case viewmodel.Loading:
		fmt.Fprintf(&b, "%s Loading trending repositories...\n", m.spinner.View())

	case viewmodel.Failed:
		b.WriteString(styles.Error.Render(FailureMessage))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("press r to retry or pick another range"))
		b.WriteString("\n")

	case viewmodel.Loaded:
		if len(rows) == 0 {
			b.WriteString(styles.Muted.Render("No trending repositories for this range"))
			b.WriteString("\n")
			break
		}

		start, end := visibleWindow(m.cursor, len(rows), m.height)
		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(rows[i], i == m.cursor, styles))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	footer := "1-4/tab: range • j/k: navigate • enter: details • t: theme • r: reload • q: quit"
	b.WriteString(styles.Muted.Render(footer))

	return b.String()
}

// visibleWindow keeps the cursor in the middle of the screen when possible
func visibleWindow(cursor, total, height int) (start, end int) {
	end = total
	if height <= 0 {
		return 0, end
	}

	maxVisible := max((height-8)/rowHeight, 1)
	if maxVisible >= total {
		return 0, end
	}

	start = max(cursor-maxVisible/2, 0)
	end = start + maxVisible
	if end > total {
		end = total
		start = max(end-maxVisible, 0)
	}
	return start, end
}

// renderRow renders one repository card. The last row has no bottom border.
func (m Model) renderRow(row trending.Row, selected bool, styles Styles) string {
	width := m.contentWidth()

	marker := "  "
	if selected {
		marker = "→ "
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Color(row.LanguageLabel))).Render("●")

	title := fmt.Sprintf("%s%2d. %s  %s %s  %s",
		marker,
		row.Rank,
		styles.RepoName.Render(row.RepoName),
		dot,
		row.LanguageLabel,
		styles.Stars.Render(FormatStars(row)),
	)

	lines := []string{title}

	if row.Description != "" {
		lines = append(lines, "    "+styles.Description.Render(truncate(row.Description, width-6)))
	}

	if len(row.VisibleTopics) > 0 {
		var tokens []string
		for _, topic := range row.VisibleTopics {
			tokens = append(tokens, styles.Topic.Render(topic))
		}
		lines = append(lines, "    "+strings.Join(tokens, " "))
	}

	style := styles.Row.Width(width - 2).BorderBottom(!row.IsLastRow)
	if selected {
		style = style.Inherit(styles.Selected)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderDetailView renders the detail view
func (m Model) renderDetailView(styles Styles) string {
	rows := m.vm.VisibleEntries()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return "No repository selected"
	}

	var b strings.Builder
	b.WriteString(FormatDetailedRow(rows[m.cursor]))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("esc: back to list • t: theme • q: quit"))

	return b.String()
}

// Run starts the Bubble Tea program
func Run(ctx context.Context, vm *viewmodel.Model, colors *langcolor.Table) error {
	defer vm.Close()

	p := tea.NewProgram(NewModel(ctx, vm, colors), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
