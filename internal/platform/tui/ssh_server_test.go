package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/session"
)

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	logger := log.New(io.Discard)
	l := ledger.New(ledger.NewMemoryStore(), logger)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Difficulty: "hard"}
	return NewSessionModel(l, session.NewSubmitter(l, nil, logger), cfg, "sshuser")
}

func press(m tea.Model, key string) tea.Model {
	next, _ := m.Update(keyMsg(key))
	return next
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	var m tea.Model = newTestSession(t)

	if got := m.(SessionModel).menu.Difficulty(); got != "hard" {
		t.Errorf("menu difficulty = %q, expected preselected hard", got)
	}

	m = press(m, "enter")
	s := m.(SessionModel)
	if s.screen != screenGame {
		t.Fatalf("screen = %d, expected game", s.screen)
	}
	if s.game.identities[0] != "sshuser" {
		t.Errorf("identity = %q", s.game.identities[0])
	}
	if s.game.config.Difficulty != "hard" {
		t.Errorf("difficulty = %q", s.game.config.Difficulty)
	}

	// Pause, then leave.
	m = press(m, "p")
	next, _ := m.Update(TickMsg{Gen: m.(SessionModel).game.gen})
	m = press(next, "esc")
	if m.(SessionModel).screen != screenMenu {
		t.Error("esc while paused should return to the menu")
	}
}

func TestSessionScoreboardAndQuit(t *testing.T) {
	var m tea.Model = newTestSession(t)

	m = press(m, "tab")
	if m.(SessionModel).screen != screenScores {
		t.Fatal("tab should open the scoreboard")
	}
	m = press(m, "esc")
	if m.(SessionModel).screen != screenMenu {
		t.Fatal("esc should leave the scoreboard")
	}

	next, cmd := m.Update(keyMsg("q"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should quit the session")
	}
}
