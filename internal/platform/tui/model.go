package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// submitTimeout bounds one ledger hand-off.
const submitTimeout = 5 * time.Second

var tickGen atomic.Int64

// resultSource is implemented by games that summarise a finished match.
type resultSource interface {
	Result() snake.Result
}

// submittedMsg carries the ledger outcome back to the model.
type submittedMsg struct {
	gen         int
	submissions []session.Submission
}

// GameModel runs one game mode and hands the result to the ledger when the
// match reaches its terminal state.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	submitter  *session.Submitter
	identities []string
	config     core.RuntimeConfig
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	gen        int
	quitting   bool
	backToMenu bool
	submitted  bool
	status     []string
}

// NewGameModel creates a model for game. identities name the players for
// the ledger, in player order; an empty identity is not submitted.
func NewGameModel(game registry.Game, submitter *session.Submitter, cfg core.RuntimeConfig, identities ...string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		submitter:  submitter,
		identities: identities,
		config:     cfg,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(game.Players()),
		gen:        int(tickGen.Add(1)),
	}
}

// Init starts the match and the tick loop.
func (m GameModel) Init() tea.Cmd {
	if err := m.game.Reset(m.config); err != nil {
		return tea.Sequence(tea.Println(err.Error()), tea.Quit)
	}
	return tickCmd(m.game.Interval(), m.gen)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	case submittedMsg:
		if msg.gen == m.gen {
			m.status = statusLines(msg.submissions)
		}
		return m, nil
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToMultiFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	restarting := m.gameState.GameOver && m.inputFrame.Has(core.ActionRestart)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if restarting && !m.gameState.GameOver {
		m.submitted = false
		m.status = nil
	}

	cmds := []tea.Cmd{tickCmd(m.game.Interval(), m.gen)}
	if m.gameState.GameOver && !m.submitted {
		m.submitted = true
		if cmd := m.submitCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// submitCmd hands the result to the ledger off the UI goroutine.
func (m GameModel) submitCmd() tea.Cmd {
	src, ok := m.game.(resultSource)
	if !ok || m.submitter == nil {
		return nil
	}
	res := src.Result()
	identities := append([]string(nil), m.identities...)
	submitter := m.submitter
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		return submittedMsg{gen: gen, submissions: submitter.Submit(ctx, res, identities)}
	}
}

func statusLines(subs []session.Submission) []string {
	lines := make([]string, 0, len(subs))
	for _, s := range subs {
		if len(subs) > 1 {
			lines = append(lines, fmt.Sprintf("P%d %s: %s", s.Player, s.Identity, s.Status()))
			continue
		}
		lines = append(lines, s.Status())
	}
	return lines
}

// saveScreenshot writes the current screen as plain text.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".snake", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.gameState.GameOver && len(m.status) > 0 {
		y := m.screen.Height() - len(m.status)
		for i, line := range m.status {
			m.screen.DrawTextCentered(y+i, line)
		}
	}
	return RenderScreen(m.screen)
}

// Status returns the ledger outcome lines of the last finished match.
func (m GameModel) Status() string {
	return strings.Join(m.status, "\n")
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the local terminal.
func Run(game registry.Game, submitter *session.Submitter, cfg core.RuntimeConfig, identities ...string) error {
	model := NewGameModel(game, submitter, cfg, identities...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
