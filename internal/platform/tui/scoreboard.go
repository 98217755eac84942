package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the profile sidebar
	sidebarWidth       = 24  // Width of the profile sidebar
	maxScores          = 100 // Max rows to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextView key.Binding
	PrevView key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev tab"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next tab"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// scoreView is one tab of the scoreboard.
type scoreView int

const (
	viewLeaderboard scoreView = iota
	viewMine
	viewAttempts
	viewCount
)

func (v scoreView) title() string {
	switch v {
	case viewLeaderboard:
		return "Leaderboard"
	case viewMine:
		return "My scores"
	case viewAttempts:
		return "Attempts"
	}
	return ""
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	store       *storage.Store
	player      string
	view        scoreView
	profile     *storage.ProfileRecord
	routes      map[string]int
	rowCount    int
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show the profile sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, player string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:       store,
		player:      player,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.loadProfile()
	m.table = m.createTable()
	m.loadRows()
	return m
}

// columns returns the table layout for the current view.
func (m *ScoreboardModel) columns() []table.Column {
	switch m.view {
	case viewAttempts:
		return []table.Column{
			{Title: "Date", Width: 14},
			{Title: "Score", Width: 7},
			{Title: "Coins", Width: 7},
			{Title: "Revive", Width: 12},
		}
	case viewMine:
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 8},
			{Title: "Coins", Width: 8},
			{Title: "Date", Width: 14},
		}
	default:
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 12},
			{Title: "Score", Width: 8},
			{Title: "Date", Width: 14},
		}
	}
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := m.columns()

	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	// Give spare room to the last column, up to 20 cells
	if spare := tableWidth - used; spare > 0 {
		last := &columns[len(columns)-1]
		last.Width = min(last.Width+spare, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadProfile reads the player's profile for the sidebar.
func (m *ScoreboardModel) loadProfile() {
	m.profile, m.routes = nil, nil
	if m.store == nil || m.player == "" {
		return
	}
	if rec, found, err := m.store.LoadProfile(m.player); err == nil && found {
		m.profile = &rec
	}
	if routes, err := m.store.RouteCounts(m.player); err == nil {
		m.routes = routes
	}
}

// loadRows fills the table for the current view.
func (m *ScoreboardModel) loadRows() {
	var rows []table.Row
	if m.store != nil {
		switch m.view {
		case viewLeaderboard:
			if scores, err := m.store.TopScores("", maxScores); err == nil {
				for i, s := range scores {
					rows = append(rows, table.Row{
						fmt.Sprintf("#%d", i+1),
						s.Player,
						fmt.Sprintf("%d", s.Score),
						s.CreatedAt.Format("Jan 02 15:04"),
					})
				}
			}
		case viewMine:
			if scores, err := m.store.TopScores(m.player, maxScores); err == nil {
				for i, s := range scores {
					rows = append(rows, table.Row{
						fmt.Sprintf("#%d", i+1),
						fmt.Sprintf("%d", s.Score),
						fmt.Sprintf("%d", s.Coins),
						s.CreatedAt.Format("Jan 02 15:04"),
					})
				}
			}
		case viewAttempts:
			if attempts, err := m.store.RecentAttempts(m.player, maxScores); err == nil {
				for _, a := range attempts {
					route := a.Route
					if a.Abandoned {
						route += " (left)"
					}
					rows = append(rows, table.Row{
						a.CreatedAt.Format("Jan 02 15:04"),
						fmt.Sprintf("%d", a.Score),
						fmt.Sprintf("%d", a.Coins),
						route,
					})
				}
			}
		}
	}
	m.rowCount = len(rows)
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// switchView moves to another tab and reloads the table.
func (m *ScoreboardModel) switchView(delta int) {
	m.view = scoreView((int(m.view) + delta + int(viewCount)) % int(viewCount))
	m.table = m.createTable()
	m.loadRows()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView), key.Matches(msg, m.keys.Right):
			m.switchView(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevView), key.Matches(msg, m.keys.Left):
			m.switchView(-1)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.loadRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HIGH SCORES - %s", m.view.title())

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: game tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with the player's profile on the side.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.renderProfile()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderProfile renders the player's lives, coins and entitlements.
func (m ScoreboardModel) renderProfile() string {
	var b strings.Builder
	name := m.player
	if maxLen := sidebarWidth - 4; len(name) > maxLen {
		name = name[:maxLen-1] + "."
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(name))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", sidebarWidth-4))
	b.WriteString("\n")

	if m.profile == nil {
		b.WriteString("No profile yet")
		return b.String()
	}
	p := m.profile
	fmt.Fprintf(&b, "Lives   %d\n", p.Lives)
	fmt.Fprintf(&b, "Coins   %d\n", p.Coins)
	fmt.Fprintf(&b, "Hearts  %d\n", p.HeartsCollected)
	fmt.Fprintf(&b, "Passes  %d\n", p.RevivePasses)
	if p.AdFreeUntil.After(time.Now()) {
		fmt.Fprintf(&b, "Ad-free %s\n", p.AdFreeUntil.Format("Jan 02"))
	}
	if len(m.routes) > 0 {
		b.WriteString("\nRevives\n")
		for _, r := range []string{"free", "mandatory_ad", "optional_ad", "life"} {
			if n := m.routes[r]; n > 0 {
				fmt.Fprintf(&b, " %-12s%d\n", r, n)
			}
		}
	}
	return b.String()
}

// renderNarrowLayout renders the scoreboard with game tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	// View tabs (horizontal)
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, viewCount)
	for v := scoreView(0); v < viewCount; v++ {
		if v == m.view {
			tabs[v] = activeTabStyle.Render(v.title())
		} else {
			tabs[v] = tabStyle.Render(" " + v.title() + " ")
		}
	}

	// Wrap tabs if needed
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.view.title())
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if m.rowCount == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nFlap through a few pipes to set one!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, player string, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, player, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
