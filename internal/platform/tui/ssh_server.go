package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string        // host:port, e.g. ":23234"
	HostKeyPath string        // Generated at ~/.snake/host_key when empty
	IdleTimeout time.Duration // Idle connections are closed after this
	Difficulty  string        // Preselected in each session's menu
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the snake menu over SSH. Every connection plays its own
// matches; all connections share one ledger.
type SSHServer struct {
	config    SSHServerConfig
	server    *ssh.Server
	ledger    *ledger.Ledger
	submitter *session.Submitter
	logger    *log.Logger
}

// NewSSHServer creates the Wish server. The host key directory is created
// if missing.
func NewSSHServer(cfg SSHServerConfig, l *ledger.Ledger, submitter *session.Submitter, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.Default()
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{config: cfg, ledger: l, submitter: submitter, logger: logger}
	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			s.logSessions,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}
	return s, nil
}

func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".snake", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: cannot create host key directory: %w", err)
	}
	return path, nil
}

// newSession builds the Bubble Tea model for one connection. The SSH user
// name becomes player 1's ledger identity.
func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:    pty.Window.Width,
		ScreenH:    pty.Window.Height,
		Difficulty: s.config.Difficulty,
	}
	return NewSessionModel(s.ledger, s.submitter, cfg, sess.User()), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		start := time.Now()
		logger.Info("session started")
		next(sess)
		logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("SSH server listening", "addr", s.config.Address)

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: ssh server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel is the top-level model of an SSH connection. It moves
// between the menu, a match and the scoreboard inside one program.
type SessionModel struct {
	ledger     *ledger.Ledger
	submitter  *session.Submitter
	config     core.RuntimeConfig
	username   string
	screen     sessionScreen
	menu       MenuModel
	game       GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a session model for username.
func NewSessionModel(l *ledger.Ledger, submitter *session.Submitter, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		ledger:    l,
		submitter: submitter,
		config:    cfg,
		username:  username,
		menu:      NewMenuModel(cfg),
	}
}

// Init implements tea.Model.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		next, cmd := m.game.Update(msg)
		m.game = next.(GameModel)
		switch {
		case m.game.IsQuitting():
			return m.quit()
		case m.game.BackToMenu():
			return m.toMenu()
		}
		return m, cmd

	case screenScores:
		next, cmd := m.scoreboard.Update(msg)
		m.scoreboard = next.(ScoreboardModel)
		switch {
		case m.scoreboard.IsQuitting():
			return m.quit()
		case m.scoreboard.IsGoingBack():
			return m.toMenu()
		}
		return m, cmd
	}

	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)
	switch m.menu.Choice() {
	case ChoiceQuit:
		return m.quit()
	case ChoiceScores:
		m.screen = screenScores
		m.scoreboard = NewScoreboardModel(m.ledger, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()
	case ChoicePlay:
		return m.startGame()
	}
	return m, cmd
}

func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	game, err := registry.Create(m.menu.Mode())
	if err != nil {
		return m.toMenu()
	}
	m.config = m.menu.Config()
	m.config.Seed = time.Now().UnixNano()

	m.screen = screenGame
	m.game = NewGameModel(game, m.submitter, m.config, m.username)
	return m, m.game.Init()
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}
