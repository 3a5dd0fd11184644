package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/ledger"
)

func seededLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(ledger.NewMemoryStore(), log.New(io.Discard))
	ctx := context.Background()
	for _, e := range []ledger.Entry{
		{Identity: "alice", Score: 12, Survival: 30 * time.Second, Category: "easy"},
		{Identity: "bob", Score: 3, Survival: 5 * time.Second, Category: "hard"},
	} {
		if _, err := l.Submit(ctx, e); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}
	return l
}

func TestScoreboardLoadsAndSwitchesTabs(t *testing.T) {
	m := NewScoreboardModel(seededLedger(t), 100, 40)

	next, _ := m.Update(m.Init()())
	m = next.(ScoreboardModel)
	if len(m.entries) != 2 || m.entries[0].Identity != "bob" {
		t.Fatalf("All tab = %+v, expected hard before easy", m.entries)
	}
	if view := m.View(); !strings.Contains(view, "alice") || !strings.Contains(view, "HIGH SCORES") {
		t.Error("view missing entries")
	}

	// Tabs after "All" run hardest first: hard, normal, easy.
	next, cmd := m.Update(keyMsg("tab"))
	m = next.(ScoreboardModel)
	if !m.loading {
		t.Error("switching tabs should reload")
	}
	next, _ = m.Update(cmd())
	m = next.(ScoreboardModel)
	if len(m.entries) != 1 || m.entries[0].Category != "hard" {
		t.Errorf("hard tab = %+v", m.entries)
	}
}

func TestScoreboardIgnoresStaleLoads(t *testing.T) {
	m := NewScoreboardModel(seededLedger(t), 100, 40)
	stale := m.Init()

	next, cmd := m.Update(keyMsg("tab"))
	m = next.(ScoreboardModel)
	next, _ = m.Update(stale())
	m = next.(ScoreboardModel)
	if !m.loading {
		t.Error("a load for another tab should be ignored")
	}
	next, _ = m.Update(cmd())
	if next.(ScoreboardModel).loading {
		t.Error("current tab load not applied")
	}
}

func TestScoreboardEmptyAndBack(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	next, _ := m.Update(m.Init()())
	m = next.(ScoreboardModel)
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("expected empty message")
	}

	next, _ = m.Update(keyMsg("esc"))
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}
