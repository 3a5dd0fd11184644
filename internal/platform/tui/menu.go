package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var (
	logoStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	selectedLevel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Underline(true)
)

// MenuChoice is what the player picked in the menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoiceQuit
)

// MenuModel picks a game mode and a difficulty.
type MenuModel struct {
	modes     []registry.GameInfo
	levels    []string
	mode      int
	level     int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	choice    MenuChoice
}

// NewMenuModel lists the registered modes. The difficulty starts at
// cfg.Difficulty, or the configured default when that is empty or unknown.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	snakeCfg := snake.Config()
	levels := snakeCfg.DifficultyNames()

	want := cfg.Difficulty
	if want == "" {
		want = snakeCfg.DefaultDifficulty()
	}
	level := 0
	for i, name := range levels {
		if name == want {
			level = i
		}
	}

	return MenuModel{
		modes:     registry.List(),
		levels:    levels,
		level:     level,
		config:    cfg,
		keyMapper: NewKeyMapper(1),
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionUp:
		m.mode = max(0, m.mode-1)
	case MenuActionDown:
		m.mode = min(len(m.modes)-1, m.mode+1)
	case MenuActionLeft:
		m.level = cycle(m.level, -1, len(m.levels))
	case MenuActionRight:
		m.level = cycle(m.level, 1, len(m.levels))
	case MenuActionSelect:
		if len(m.modes) == 0 {
			return m, nil
		}
		m.config.Difficulty = m.Difficulty()
		return m.finish(ChoicePlay)
	case MenuActionScoreboard:
		return m.finish(ChoiceScores)
	case MenuActionQuit, MenuActionBack:
		return m.finish(ChoiceQuit)
	}
	return m, nil
}

func (m MenuModel) finish(c MenuChoice) (tea.Model, tea.Cmd) {
	m.choice = c
	return m, tea.Quit
}

func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return (i + delta + n) % n
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.choice == ChoiceQuit {
		return ""
	}

	var modes strings.Builder
	for i, g := range m.modes {
		line := "  " + g.Title
		if g.Players > 1 {
			line += fmt.Sprintf(" (%d players)", g.Players)
		}
		if i == m.mode {
			line = cursorStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		modes.WriteString(line + "\n")
	}

	levels := make([]string, len(m.levels))
	for i, name := range m.levels {
		if i == m.level {
			levels[i] = selectedLevel.Render(name)
		} else {
			levels[i] = dimStyle.Render(name)
		}
	}

	view := lipgloss.JoinVertical(lipgloss.Center,
		"",
		logoStyle.Render("S N A K E"),
		"",
		modes.String(),
		"Difficulty:  "+strings.Join(levels, "  "),
		"",
		dimStyle.Render("↑/↓ mode · ←/→ difficulty · enter play · tab scores · q quit"),
	)
	return lipgloss.PlaceHorizontal(m.config.ScreenW, lipgloss.Center, view)
}

// Difficulty returns the highlighted preset.
func (m MenuModel) Difficulty() string {
	if len(m.levels) == 0 {
		return ""
	}
	return m.levels[m.level]
}

// Choice returns what the player picked, ChoiceNone while still choosing.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Mode returns the highlighted game mode ID.
func (m MenuModel) Mode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.mode].ID
}

// Config returns the runtime config with the chosen difficulty and the
// latest screen size.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult is the outcome of a standalone menu program.
type MenuResult struct {
	Choice MenuChoice
	GameID string
	Config core.RuntimeConfig
}

// RunMenu runs the menu as its own program.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Choice: ChoiceQuit, Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok || m.Choice() == ChoiceNone {
		return MenuResult{Choice: ChoiceQuit, Config: cfg}, nil
	}
	return MenuResult{Choice: m.Choice(), GameID: m.Mode(), Config: m.Config()}, nil
}
