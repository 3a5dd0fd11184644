package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/ledger"
)

const (
	scoreboardLimit = 100
	loadTimeout     = 3 * time.Second
	allCategories   = "All"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTab  = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type scoreboardKeys struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Reload key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Prev, k.Reload, k.Back, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next level")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev level")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// entriesMsg delivers a ledger read for one category tab.
type entriesMsg struct {
	tab     int
	entries []ledger.Entry
	err     error
}

// ScoreboardModel browses the ledger one difficulty at a time, plus an
// "All" tab ranked across difficulties.
type ScoreboardModel struct {
	ledger    *ledger.Ledger
	tabs      []string
	ranks     map[string]int
	tab       int
	entries   []ledger.Entry
	loading   bool
	loadErr   error
	table     table.Model
	help      help.Model
	keys      scoreboardKeys
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over l.
func NewScoreboardModel(l *ledger.Ledger, width, height int) ScoreboardModel {
	cfg := snake.Config()
	m := ScoreboardModel{
		ledger:  l,
		tabs:    append([]string{allCategories}, cfg.DifficultyNames()...),
		ranks:   cfg.CategoryRanks(),
		help:    help.New(),
		keys:    newScoreboardKeys(),
		width:   width,
		height:  height,
		loading: true,
	}
	m.table = newScoreTable(width, height)
	return m
}

func newScoreTable(width, height int) table.Model {
	player := 16
	if width >= 90 {
		player = 24
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Player", Width: player},
			{Title: "Level", Width: 8},
			{Title: "Score", Width: 6},
			{Title: "Survived", Width: 9},
			{Title: "When", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(3, height-10)),
	)

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

// load reads the current tab off the UI goroutine.
func (m ScoreboardModel) load() tea.Cmd {
	l, tab := m.ledger, m.tab
	filter := ledger.Filter{Ranks: m.ranks}
	if m.tabs[tab] != allCategories {
		filter.Category = m.tabs[tab]
	}
	return func() tea.Msg {
		if l == nil {
			return entriesMsg{tab: tab}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		entries, err := l.Top(ctx, scoreboardLimit, filter)
		return entriesMsg{tab: tab, entries: entries, err: err}
	}
}

func (m *ScoreboardModel) setRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprint(i + 1),
			e.Identity,
			e.Category,
			fmt.Sprint(e.Score),
			formatSurvival(e.Survival),
			e.RecordedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func formatSurvival(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// Init starts the first ledger read.
func (m ScoreboardModel) Init() tea.Cmd {
	return m.load()
}

func (m ScoreboardModel) switchTab(delta int) (ScoreboardModel, tea.Cmd) {
	m.tab = (m.tab + delta + len(m.tabs)) % len(m.tabs)
	m.loading = true
	return m, m.load()
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesMsg:
		if msg.tab != m.tab {
			return m, nil
		}
		m.loading = false
		m.entries, m.loadErr = msg.entries, msg.err
		m.setRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m.switchTab(1)
		case key.Matches(msg, m.keys.Prev):
			return m.switchTab(-1)
		case key.Matches(msg, m.keys.Reload):
			return m.switchTab(0)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = newScoreTable(msg.Width, msg.Height)
		m.setRows()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	tabs := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		if i == m.tab {
			tabs[i] = activeTab.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	tabLine := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(tabLine) > m.width {
		tabLine = activeTab.Render("< " + m.tabs[m.tab] + " >")
	}

	var body string
	switch {
	case m.loading:
		body = dimStyle.Render("Loading...")
	case m.loadErr != nil:
		body = dimStyle.Italic(true).Padding(1, 2).Render("Scores are unavailable right now.")
	case len(m.entries) == 0:
		body = dimStyle.Italic(true).Padding(1, 2).Render("No scores recorded yet.\nPlay a match to set a high score!")
	default:
		body = m.table.View()
	}

	view := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("HIGH SCORES"),
		"",
		tabLine,
		"",
		frameStyle.Render(body),
		m.detail(),
		dimStyle.Render(m.help.View(m.keys)),
	)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, view)
}

// detail summarises the highlighted entry.
func (m ScoreboardModel) detail() string {
	if m.loading || len(m.entries) == 0 {
		return ""
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return ""
	}
	e := m.entries[i]
	return dimStyle.Render(fmt.Sprintf("%s scored %d on %s and survived %s",
		e.Identity, e.Score, e.Category, formatSurvival(e.Survival)))
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
func RunScoreboard(l *ledger.Ledger, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(l, width, height), tea.WithAltScreen())

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
